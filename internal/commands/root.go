// Package commands wires the CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Navdevl/chris-cred-reader/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "credreader",
		Short:   "Extract transactions from password-protected card statement PDFs",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}
