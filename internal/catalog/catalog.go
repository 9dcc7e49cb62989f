// Package catalog loads the scene catalog that drives a run.
// Catalogs are YAML documents; JSON catalogs are accepted as well.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/forPelevin/shortgen/internal/types"
)

//go:embed default.yaml
var defaultCatalog []byte

var ErrInvalid = errors.New("invalid catalog")

// Default returns the built-in catalog used when no file is given.
func Default() (types.Catalog, error) {
	return Parse(defaultCatalog)
}

func Load(path string) (types.Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return types.Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Parse(b []byte) (types.Catalog, error) {
	var c types.Catalog
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return types.Catalog{}, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return types.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := Validate(c); err != nil {
		return types.Catalog{}, err
	}
	return c, nil
}

// Validate checks the invariants every later stage relies on.
func Validate(c types.Catalog) error {
	if len(c.Scenes) == 0 {
		return fmt.Errorf("%w: no scenes", ErrInvalid)
	}
	for i, s := range c.Scenes {
		if strings.TrimSpace(s.Narration) == "" {
			return fmt.Errorf("%w: scene %d: narration is empty", ErrInvalid, i+1)
		}
	}
	return nil
}
