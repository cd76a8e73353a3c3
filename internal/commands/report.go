package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gastos/internal/core"
	"gastos/internal/format"
)

func newReportCommand(open Opener) *cobra.Command {
	var window string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Muestra el total, la serie diaria y el gasto por categoría",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := core.ParseTimeWindow(window)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), open, func(app *App) error {
				return runReport(cmd, app.Ledger.Report(cmd.Context(), w))
			})
		},
	}

	cmd.Flags().StringVarP(&window, "window", "w", string(core.WindowLast30), "time window: last30, currentMonth or all")

	return cmd
}

func runReport(cmd *cobra.Command, agg core.Aggregation) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s (%d gastos)\n", format.WindowLabel(agg.Window), format.Currency(agg.Total), agg.Count)
	if agg.Count == 0 {
		return nil
	}

	labels, ambiguous := format.DailyLabels(agg.Daily)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(out, "\nPor día:")
	for i, d := range agg.Daily {
		fmt.Fprintf(w, "  %s\t%s\t\n", labels[i], format.Currency(d.Total))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nPor categoría:")
	for _, c := range agg.Categories {
		fmt.Fprintf(w, "  %s %s\t%s\t\n", c.Icon, c.Label, format.Currency(c.Total))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(ambiguous) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "aviso: las fechas %s aparecen en más de un año\n", strings.Join(ambiguous, ", "))
	}
	return nil
}
