package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gastos/internal/export"
)

func newExportCommand(open Opener) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta los gastos como CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), open, func(app *App) (err error) {
				w := cmd.OutOrStdout()
				if output != "" {
					var f *os.File
					f, err = os.Create(output)
					if err != nil {
						return fmt.Errorf("create %s: %w", output, err)
					}
					defer func() {
						if cerr := f.Close(); cerr != nil && err == nil {
							err = cerr
						}
					}()
					w = f
				}
				return export.WriteCSV(w, app.Ledger.List(cmd.Context()), app.Ledger.Table())
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}
