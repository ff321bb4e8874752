package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/wavmeta/internal/config"
	"github.com/cwbudde/wavmeta/internal/logging"
)

type app struct {
	envFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "wavtagger",
		Short: "Write sound library metadata into wav files",
		Long: `wavtagger - Writes a flat metadata record into the bext, ID3, LIST/INFO,
iXML and XMP chunks of wav files.

Any previous metadata chunk of those five kinds is replaced. Audio data and
every other chunk are kept byte for byte.

Commands:
  - tag: write a record into one file or every wav file of a directory
  - show: print the chunks and metadata of a file

Environment:
  WAVTAGGER_LOG_LEVEL   debug, info, warn or error (default info)
  WAVTAGGER_LOG_FORMAT  text or json (default text)
  WAVTAGGER_JOBS        files tagged concurrently (default 1)
  WAVTAGGER_SOFTWARE    tool name embedded in the chunks`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.envFile)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.envFile, "env", ".env", "Optional dotenv file with WAVTAGGER_* settings")

	rootCmd.AddCommand(newTagCmd(a), newShowCmd(a))

	return rootCmd
}
