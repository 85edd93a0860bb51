package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Navdevl/chris-cred-reader/internal/logger"
	"github.com/Navdevl/chris-cred-reader/internal/models"
	"github.com/Navdevl/chris-cred-reader/internal/processor"
	"github.com/Navdevl/chris-cred-reader/internal/writer"
)

func newConvertCommand() *cobra.Command {
	var (
		bank     string
		password string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "convert <statement.pdf>",
		Short: "Extract one statement and print its ledger rows as CSV",
		Long: `Extracts a single statement PDF and writes its transactions as CSV
to stdout. Issuer and passphrase come from the filename convention
<issuer>-<passphrase>-<identifier>.pdf unless overridden by flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			filename := filepath.Base(path)

			file, err := models.ParseFilename(filename)
			if err != nil && (bank == "" || password == "") {
				return fmt.Errorf("%v (use --bank and --password to override)", err)
			}
			if bank != "" {
				if !models.IsSupportedBank(bank) {
					return fmt.Errorf("unsupported bank %q", bank)
				}
				file.Bank = bank
			}
			if password != "" {
				file.Password = password
			}
			file.Filename = filename

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			log := logger.New(logLevel)
			txns, err := processor.ExtractTransactions(data, file, log)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				log.Warn().Str("file", filename).Msg("no transactions found; the layout may not match expected patterns")
			}

			w := &writer.LedgerWriter{}
			return w.Write(os.Stdout, txns)
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "issuer tag: axis, hdfc, sbi, icici, rbl (default: from filename)")
	cmd.Flags().StringVar(&password, "password", "", "document passphrase (default: from filename)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}
