package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/shortgen/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the external media tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			images, _ := cmd.Flags().GetString("images")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			r := doctor.Check(ctx, requiredTools(images))
			if err := r.Write(cmd.OutOrStdout()); err != nil {
				return err
			}
			if missing := r.Missing(); len(missing) > 0 {
				return fmt.Errorf("missing tools: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
	cmd.Flags().String("images", "imagemagick", "Title card renderer to check for: imagemagick or native")
	return cmd
}

// requiredTools maps tool names to the binaries a run would invoke.
// The native renderer needs no convert binary.
func requiredTools(images string) map[string]string {
	tools := map[string]string{
		"espeak":  getenvDefault("SHORTGEN_ESPEAK", "espeak"),
		"ffmpeg":  getenvDefault("SHORTGEN_FFMPEG", "ffmpeg"),
		"ffprobe": getenvDefault("SHORTGEN_FFPROBE", "ffprobe"),
	}
	if images != "native" {
		tools["convert"] = getenvDefault("SHORTGEN_CONVERT", "convert")
	}
	return tools
}
