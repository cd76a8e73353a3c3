package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gastos/internal/core"
)

func newDeleteCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Borra un gasto",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), open, func(app *App) error {
				if err := app.Ledger.Delete(cmd.Context(), args[0]); err != nil {
					if errors.Is(err, core.ErrNotFound) {
						return fmt.Errorf("no existe un gasto con id %s", args[0])
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Gasto borrado")
				return nil
			})
		},
	}
}

func newClearCommand(open Opener) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Borra todos los gastos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("clear borra todos los gastos: confirma con --yes")
			}
			return withApp(cmd.Context(), open, func(app *App) error {
				if err := app.Ledger.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Se borraron todos los gastos")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm removing every expense")

	return cmd
}
