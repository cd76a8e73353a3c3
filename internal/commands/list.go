package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gastos/internal/format"
)

func newListCommand(open Opener) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista los gastos, los más recientes primero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), open, func(app *App) error {
				expenses := app.Ledger.List(cmd.Context())
				if len(expenses) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No hay gastos registrados")
					return nil
				}
				if limit > 0 && len(expenses) > limit {
					expenses = expenses[:limit]
				}

				table := app.Ledger.Table()
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tFECHA\tDESCRIPCIÓN\tCATEGORÍA\tMONTO")
				for _, e := range expenses {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						e.ID,
						e.Date.Format(time.DateOnly),
						e.Description,
						table.Resolve(e.Category).Label,
						format.Currency(e.Amount))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n expenses (0 shows all)")

	return cmd
}
