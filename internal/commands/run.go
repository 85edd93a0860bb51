package commands

import (
	"github.com/spf13/cobra"

	"github.com/Navdevl/chris-cred-reader/internal/config"
	"github.com/Navdevl/chris-cred-reader/internal/logger"
	"github.com/Navdevl/chris-cred-reader/internal/processor"
)

func newRunCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process statement PDFs from the configured inbox",
		Long: `Scans the inbox directory for <issuer>-<passphrase>-<identifier>.pdf
files, extracts transactions with the issuer's parser, appends new
rows to the ledger and moves handled files to the processed folder.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel)
			p := processor.New(cfg, log)

			if watch {
				log.Info().Dur("interval", cfg.PollInterval).Msg("watching inbox")
				return p.RunForever()
			}
			_, err = p.RunCycle()
			return err
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep running, re-scanning the inbox on the poll interval")
	return cmd
}
