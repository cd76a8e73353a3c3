package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"gastos/internal/format"
)

func newAddCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [texto...]",
		Short: "Agrega gastos, uno por línea",
		Long: `Agrega uno o más gastos escritos en texto libre. Cada línea es un gasto.
Sin argumentos, o con "-", lee las líneas de la entrada estándar.`,
		Example: `  gastos add "500 comida"
  printf '500 comida\nayer 1,5k uber\n' | gastos add`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), open, func(app *App) error {
				return runAdd(cmd, app, text)
			})
		},
	}
	return cmd
}

// inputText joins args into one line, or reads stdin when there are none.
func inputText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func runAdd(cmd *cobra.Command, app *App, text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New(`nada para agregar: escribe un gasto, por ejemplo "500 comida"`)
	}

	res, err := app.Ledger.AddLines(cmd.Context(), text)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	table := app.Ledger.Table()
	fmt.Fprintln(out, res.Message)
	for _, e := range res.Batch.Added {
		cat := table.Resolve(e.Category)
		fmt.Fprintf(out, "  + %s %s  %s  %s\n", cat.Icon, format.Currency(e.Amount), e.Description, format.DayLabel(e.Date))
	}
	for _, f := range res.Batch.Failed {
		fmt.Fprintf(out, "  ✗ línea %d: %q (%v)\n", f.Line, f.Text, f.Err)
	}
	for _, re := range res.ReplicationErrors {
		fmt.Fprintf(cmd.ErrOrStderr(), "aviso: %s no se sincronizó: %v\n", re.ExpenseID, re.Err)
	}

	if res.Batch.AddedCount() == 0 {
		return errors.New("no se agregó ningún gasto")
	}
	return nil
}
