package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/forPelevin/shortgen/internal/ports/adapters/espeak"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "shortgen [catalog]",
		Short:        "Render a narrated vertical short from a scene catalog",
		Long:         "Render a narrated vertical short from a scene catalog.\nWithout a catalog argument the built-in catalog is used.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogPath := ""
			if len(args) == 1 {
				catalogPath = args[0]
			}
			return run(cmd, catalogPath)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("out", "out", "Output directory")
	root.Flags().String("images", "imagemagick", "Title card renderer: imagemagick or native")
	root.Flags().String("voice", espeak.DefaultVoice, "espeak voice")
	root.Flags().Int("speed", espeak.DefaultSpeed, "espeak speed in words per minute")
	root.PersistentFlags().String("log-level", getenvDefault("SHORTGEN_LOG_LEVEL", "info"), "Log level: debug, info, warn or error")

	root.AddCommand(newDoctorCmd())
	return root
}
