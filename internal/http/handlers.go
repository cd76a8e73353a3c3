package http

import (
	"bytes"
	"errors"
	"net/http"

	"gastos/internal/core"
	"gastos/internal/export"
	applog "gastos/internal/log"
)

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	expenses := s.ledger.List(ctx)
	applog.FromContext(ctx).DebugContext(ctx, "Listed expenses",
		applog.FieldOperation, applog.OpList,
		applog.FieldRecords, len(expenses))
	NewJSONResponse().
		Body(map[string]any{"expenses": newExpenseViews(expenses, s.ledger.Table())}).
		Write(w)
}

type lineFailure struct {
	Line  int    `json:"line"`
	Text  string `json:"text"`
	Error string `json:"error"`
}

type replicationFailure struct {
	ExpenseID string `json:"expense_id"`
	Error     string `json:"error"`
}

type addResponse struct {
	Added             int                  `json:"added"`
	Failed            int                  `json:"failed"`
	Message           string               `json:"message"`
	Expenses          []expenseView        `json:"expenses"`
	Failures          []lineFailure        `json:"failures"`
	ReplicationErrors []replicationFailure `json:"replication_errors"`
}

// handleAddExpenses parses one expense per line of the "text" field.
// 201 when at least one line was added, 422 when none was understood.
func (s *Server) handleAddExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	p := NewRequestBodyParser(w, r, maxBodyBytes)
	if err := p.Parse(); err != nil {
		if p.TooLarge() {
			RequestTooLargeError().Write(w)
			return
		}
		BadRequestError("Formato de solicitud inválido").Write(w)
		return
	}

	text := p.Get("text")
	if text == "" {
		BadRequestError(`Escribe al menos un gasto, por ejemplo "500 comida"`).Write(w)
		return
	}

	res, err := s.ledger.AddLines(ctx, text)
	if err != nil {
		applog.NewStructuredLogger(logger).LogError(ctx, "Failed to add expenses", err, applog.ComponentLedger, applog.OpAdd, nil)
		InternalServerError("No se pudieron guardar los gastos").Write(w)
		return
	}
	applog.NewStructuredLogger(logger).LogExpensesAdded(ctx, res.Batch.AddedCount(), res.Batch.FailedCount())

	body := addResponse{
		Added:             res.Batch.AddedCount(),
		Failed:            res.Batch.FailedCount(),
		Message:           res.Message,
		Expenses:          newExpenseViews(res.Batch.Added, s.ledger.Table()),
		Failures:          make([]lineFailure, 0, len(res.Batch.Failed)),
		ReplicationErrors: make([]replicationFailure, 0, len(res.ReplicationErrors)),
	}
	for _, f := range res.Batch.Failed {
		body.Failures = append(body.Failures, lineFailure{Line: f.Line, Text: f.Text, Error: f.Err.Error()})
	}
	for _, re := range res.ReplicationErrors {
		body.ReplicationErrors = append(body.ReplicationErrors, replicationFailure{ExpenseID: re.ExpenseID, Error: re.Err.Error()})
	}

	status := http.StatusCreated
	if body.Added == 0 {
		status = http.StatusUnprocessableEntity
	}
	NewJSONResponse().Status(status).Body(body).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.ledger.Get(r.PathValue("id"))
	if err != nil {
		NotFoundError("Gasto no encontrado").Write(w)
		return
	}
	NewJSONResponse().Body(newExpenseView(e, s.ledger.Table())).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := s.ledger.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			NotFoundError("Gasto no encontrado").Write(w)
			return
		}
		applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Failed to delete expense", err, applog.ComponentLedger, applog.OpDelete,
			applog.NewFields().WithExpense(id, 0, "", ""))
		InternalServerError("No se pudo borrar el gasto").Write(w)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.ledger.Clear(ctx); err != nil {
		applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Failed to clear expenses", err, applog.ComponentLedger, applog.OpClear, nil)
		InternalServerError("No se pudieron borrar los gastos").Write(w)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	agg := s.ledger.Report(r.Context(), window)
	NewJSONResponse().Body(newReportView(agg)).Write(w)
}

type syncResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// handleSync always answers 200: a failed sync is a notification for the
// user, not a failed request.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	out := s.ledger.SyncDown(r.Context())
	body := syncResponse{
		Status:  string(out.Status),
		Records: out.Records,
		Message: out.Message,
	}
	if out.Err != nil {
		body.Error = out.Err.Error()
	}
	NewJSONResponse().Body(body).Write(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, s.ledger.List(ctx), s.ledger.Table()); err != nil {
		applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Failed to export expenses", err, applog.ComponentHTTP, applog.OpExport, nil)
		InternalServerError("No se pudo exportar").Write(w)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="gastos.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
