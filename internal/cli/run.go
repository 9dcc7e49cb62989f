package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/shortgen/internal/logging"
	"github.com/forPelevin/shortgen/internal/pipeline"
)

func run(cmd *cobra.Command, catalogPath string) error {
	outDir, _ := cmd.Flags().GetString("out")
	images, _ := cmd.Flags().GetString("images")
	voice, _ := cmd.Flags().GetString("voice")
	speed, _ := cmd.Flags().GetInt("speed")
	level, _ := cmd.Flags().GetString("log-level")

	logger := logging.WithComponent(logging.NewLogger(cmd.ErrOrStderr(), level), "pipeline")

	if catalogPath != "" {
		abs, err := filepath.Abs(catalogPath)
		if err != nil {
			return err
		}
		catalogPath = abs
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		CatalogPath:   catalogPath,
		OutDir:        outDir,
		ImageRenderer: images,
		Logf:          logging.Logf(logger),

		FFmpegPath:  getenvDefault("SHORTGEN_FFMPEG", "ffmpeg"),
		FFprobePath: getenvDefault("SHORTGEN_FFPROBE", "ffprobe"),
		EspeakPath:  getenvDefault("SHORTGEN_ESPEAK", "espeak"),
		ConvertPath: getenvDefault("SHORTGEN_CONVERT", "convert"),

		Voice: voice,
		Speed: speed,
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
