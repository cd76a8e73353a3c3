package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/cache"
	"gastos/internal/config"
	"gastos/internal/core"
	applog "gastos/internal/log"
	"gastos/internal/services"
	sheetmem "gastos/internal/sheets/memory"
	"gastos/internal/storage"
)

var fixedNow = time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)

func discardLogger() *applog.Logger {
	return applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func newTestApp(t *testing.T, remote *sheetmem.Store) *App {
	t.Helper()

	var n atomic.Int64
	newID := func() string { return fmt.Sprintf("id-%d", n.Add(1)) }

	reports := cache.NewLRUCache[core.Aggregation](8, time.Minute)
	cfg := services.LedgerConfig{
		Parser:  core.NewParser(core.DefaultCategoryTable(), core.WithIDGenerator(newID)),
		Store:   storage.NewMemoryStore(),
		Reports: reports,
		Now:     func() time.Time { return fixedNow },
		NewID:   newID,
	}
	if remote != nil {
		cfg.Remote = remote
	}
	ledger, err := services.NewLedger(context.Background(), cfg)
	require.NoError(t, err)

	return &App{
		Config:   &config.Config{Port: "0", SyncRemote: "none", SyncTimeout: time.Second},
		Logger:   discardLogger(),
		Ledger:   ledger,
		Reports:  reports,
		Registry: prometheus.NewRegistry(),
	}
}

// run executes the CLI against app and returns stdout and stderr.
func run(t *testing.T, app *App, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand(func(context.Context) (*App, error) { return app, nil })

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestAdd_FromArgs(t *testing.T) {
	app := newTestApp(t, nil)

	out, _, err := run(t, app, "", "add", "500", "comida")
	require.NoError(t, err)
	assert.Contains(t, out, "Se agregaron 1 gastos correctamente")
	assert.Contains(t, out, "Comida")

	coll := app.Ledger.Snapshot()
	require.Len(t, coll, 1)
	assert.Equal(t, 500.0, coll[0].Amount)
	assert.Equal(t, "comida", coll[0].Category)
}

func TestAdd_FromStdin(t *testing.T) {
	app := newTestApp(t, nil)

	out, _, err := run(t, app, "500 comida\nsin numero\nayer 1,5k uber\n", "add")
	require.NoError(t, err)
	assert.Contains(t, out, "Se agregaron 2 gastos. 1 no se entendieron.")
	assert.Contains(t, out, `línea 2: "sin numero"`)
	assert.Len(t, app.Ledger.Snapshot(), 2)
}

func TestAdd_NothingUnderstood(t *testing.T) {
	app := newTestApp(t, nil)

	out, _, err := run(t, app, "", "add", "hola")
	require.Error(t, err)
	assert.Contains(t, out, "No pude entender los gastos")
	assert.Empty(t, app.Ledger.Snapshot())

	_, _, err = run(t, app, "   \n", "add", "-")
	require.Error(t, err)
}

func TestList(t *testing.T) {
	app := newTestApp(t, nil)

	out, _, err := run(t, app, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No hay gastos registrados")

	_, _, err = run(t, app, "anteayer 300 coto\n200 uber\n", "add")
	require.NoError(t, err)

	out, _, err = run(t, app, "", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "DESCRIPCIÓN")
	assert.Contains(t, lines[1], "Uber")
	assert.Contains(t, lines[1], "2025-03-15")
	assert.Contains(t, lines[2], "Coto")
	assert.Contains(t, lines[2], "2025-03-13")

	out, _, err = run(t, app, "", "list", "-n", "1")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestReport(t *testing.T) {
	app := newTestApp(t, nil)
	_, _, err := run(t, app, "500 comida\n200 uber\n2/1 300 coto\n", "add")
	require.NoError(t, err)

	out, _, err := run(t, app, "", "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Últimos 30 días")
	assert.Contains(t, out, "(2 gastos)")
	assert.Contains(t, out, "15 mar")
	assert.Contains(t, out, "Comida")
	assert.Contains(t, out, "Transporte")

	out, _, err = run(t, app, "", "report", "--window", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "(3 gastos)")
	assert.Contains(t, out, "2 ene")

	_, _, err = run(t, app, "", "report", "--window", "semana")
	assert.Error(t, err)
}

func TestDeleteAndClear(t *testing.T) {
	app := newTestApp(t, nil)
	_, _, err := run(t, app, "500 comida\n200 uber\n", "add")
	require.NoError(t, err)

	_, _, err = run(t, app, "", "delete", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no existe")

	id := app.Ledger.Snapshot()[0].ID
	out, _, err := run(t, app, "", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Gasto borrado")
	assert.Len(t, app.Ledger.Snapshot(), 1)

	_, _, err = run(t, app, "", "clear")
	require.Error(t, err)
	assert.Len(t, app.Ledger.Snapshot(), 1)

	_, _, err = run(t, app, "", "clear", "--yes")
	require.NoError(t, err)
	assert.Empty(t, app.Ledger.Snapshot())
}

func TestSync(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		app := newTestApp(t, nil)
		out, _, err := run(t, app, "", "sync")
		require.NoError(t, err)
		assert.Contains(t, out, "Sincronización desactivada")
	})

	t.Run("replaces and records status", func(t *testing.T) {
		remote := sheetmem.New([]core.Expense{
			{ID: "r1", Amount: 100, Description: "Pan", Category: "comida", Date: fixedNow},
			{ID: "r2", Amount: 50, Description: "Subte", Category: "transporte", Date: fixedNow},
		})
		app := newTestApp(t, remote)

		out, _, err := run(t, app, "", "sync", "--status")
		require.NoError(t, err)
		assert.Contains(t, out, "Todavía no se sincronizó")

		out, _, err = run(t, app, "", "sync")
		require.NoError(t, err)
		assert.Contains(t, out, "Sincronizado con Google Sheets")
		assert.Len(t, app.Ledger.Snapshot(), 2)

		out, _, err = run(t, app, "", "sync", "--status")
		require.NoError(t, err)
		assert.Contains(t, out, "replaced, 2 gastos")
	})

	t.Run("failure keeps local data", func(t *testing.T) {
		remote := sheetmem.New(nil)
		remote.SetFailure(fmt.Errorf("pull: %w", core.ErrSyncRejected))
		app := newTestApp(t, remote)
		_, _, err := run(t, app, "", "add", "500 comida")
		require.NoError(t, err)

		out, _, err := run(t, app, "", "sync")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrSyncRejected)
		assert.Contains(t, out, "Error al sincronizar con Google Sheets")
		assert.Len(t, app.Ledger.Snapshot(), 1)
	})
}

func TestExport(t *testing.T) {
	app := newTestApp(t, nil)
	_, _, err := run(t, app, "", "add", "500 comida")
	require.NoError(t, err)

	out, _, err := run(t, app, "", "export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "id,fecha,descripcion,monto,categoria"))
	assert.Contains(t, out, "id-1,2025-03-15,Comida,500,Comida")

	path := filepath.Join(t.TempDir(), "gastos.csv")
	_, _, err = run(t, app, "", "export", "--output", path)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(b))
}

func TestOpen_MemoryBackend(t *testing.T) {
	cfg := &config.Config{
		StoreBackend:    "memory",
		SyncRemote:      "none",
		SyncTimeout:     time.Second,
		ReportCacheSize: 8,
		ReportCacheTTL:  time.Minute,
	}

	app, err := Open(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer func() { assert.NoError(t, app.Close()) }()

	assert.Empty(t, app.Ledger.Snapshot())
	assert.Equal(t, services.SyncDisabled, app.Ledger.SyncDown(context.Background()).Status)

	families, err := app.Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "gastos_expenses")
}

func TestOpen_InvalidBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreBackend: "postgres", SyncRemote: "none"}, discardLogger())
	assert.Error(t, err)
}
