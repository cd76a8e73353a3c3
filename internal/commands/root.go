package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(open Opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gastos",
		Short: "Registro de gastos escritos en texto libre",
		Long: `gastos registra gastos escritos como texto libre, uno por línea:

  gastos add "500 comida"
  gastos add "ayer 1,5k uber"
  gastos add "12/03 3.500 coto"`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newAddCommand(open),
		newListCommand(open),
		newReportCommand(open),
		newDeleteCommand(open),
		newClearCommand(open),
		newSyncCommand(open),
		newExportCommand(open),
		newServeCommand(open),
	)

	return rootCmd
}
