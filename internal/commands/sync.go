package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSyncCommand(open Opener) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reemplaza los gastos locales por los de la hoja remota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), open, func(app *App) error {
				if status {
					return runSyncStatus(cmd, app)
				}
				out := app.Ledger.SyncDown(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), out.Message)
				if out.Err != nil {
					return fmt.Errorf("sync %s: %w", out.Status, out.Err)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "show the last recorded sync instead of syncing")

	return cmd
}

func runSyncStatus(cmd *cobra.Command, app *App) error {
	rec, ok, err := app.Ledger.LastSync(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, "Todavía no se sincronizó")
		return nil
	}
	fmt.Fprintf(out, "Última sincronización: %s (%s, %d gastos)\n",
		rec.RecordedAt.Local().Format(time.DateTime), rec.Status, rec.Records)
	if rec.Detail != "" {
		fmt.Fprintf(out, "Detalle: %s\n", rec.Detail)
	}
	return nil
}
