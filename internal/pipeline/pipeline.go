package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/forPelevin/shortgen/internal/catalog"
	"github.com/forPelevin/shortgen/internal/ports"
	"github.com/forPelevin/shortgen/internal/ports/adapters/cardgen"
	"github.com/forPelevin/shortgen/internal/ports/adapters/espeak"
	"github.com/forPelevin/shortgen/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/shortgen/internal/ports/adapters/imagemagick"
	"github.com/forPelevin/shortgen/internal/types"
	"github.com/forPelevin/shortgen/internal/usecase"
)

const (
	RendererImageMagick = "imagemagick"
	RendererNative      = "native"
)

var ErrUnknownRenderer = errors.New("unknown image renderer")

type Config struct {
	// CatalogPath is a YAML or JSON catalog. If empty, the built-in catalog is used.
	CatalogPath string

	// ImageRenderer selects how title cards are drawn: "imagemagick" or "native".
	ImageRenderer string

	OutDir string
	Logf   func(format string, args ...any)

	FFmpegPath  string
	FFprobePath string
	EspeakPath  string
	ConvertPath string

	Voice string
	Speed int
}

func (c Config) Validate() error {
	switch c.ImageRenderer {
	case "", RendererImageMagick, RendererNative:
	default:
		return fmt.Errorf("%w %q (want %s or %s)", ErrUnknownRenderer, c.ImageRenderer, RendererImageMagick, RendererNative)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be > 0")
	}
	if c.CatalogPath != "" {
		fi, err := os.Stat(c.CatalogPath)
		if err != nil {
			return fmt.Errorf("stat catalog: %w", err)
		}
		if fi.IsDir() {
			return fmt.Errorf("catalog %s is a directory", c.CatalogPath)
		}
	}
	return nil
}

func Run(ctx context.Context, cfg Config) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	logf("catalog: %q, %d scenes", cat.Project.Title, len(cat.Scenes))

	// adapters
	media := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	deps := usecase.Deps{
		Speech: espeak.New(cfg.EspeakPath, cfg.Voice, cfg.Speed),
		Prober: media,
		Images: newImageRenderer(cfg),
		Audio:  media,
		Video:  media,
	}
	uc := usecase.New(deps)

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runID := uuid.NewString()
	layout := usecase.NewLayout(buildRunOutDir(outDir, cat.Project.Title, runID, time.Now().UTC()))
	logf("preparing workspace")
	if err := layout.Ensure(); err != nil {
		return err
	}
	logf("output run dir: %s", layout.Root)

	res, err := uc.Run(ctx, usecase.Input{
		Catalog: cat,
		OutDir:  layout.Root,
		RunID:   runID,
		Logf:    logf,
	})
	if err != nil {
		return err
	}
	logf("done (%d scenes, %.2fs): %s", len(res.Durations), res.TotalDuration, res.FinalVideo)
	return nil
}

func loadCatalog(path string) (types.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func newImageRenderer(cfg Config) ports.ImageRenderer {
	if cfg.ImageRenderer == RendererNative {
		return cardgen.New()
	}
	return imagemagick.New(cfg.ConvertPath)
}

func buildRunOutDir(outRoot, title, runID string, now time.Time) string {
	name := normalizePathSegment(title)
	if name == "" {
		name = "short"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%s|%d", title, runID, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.SpeechSynthesizer = (*espeak.Adapter)(nil)
var _ ports.DurationProber = (*ffmpeg.Adapter)(nil)
var _ ports.AudioMixer = (*ffmpeg.Adapter)(nil)
var _ ports.VideoCompositor = (*ffmpeg.Adapter)(nil)
var _ ports.ImageRenderer = (*imagemagick.Adapter)(nil)
var _ ports.ImageRenderer = (*cardgen.Renderer)(nil)
