package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gastos/internal/core"
	ports "gastos/internal/sheets"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Column layout of the expenses sheet, header on row 1:
// A id, B date (RFC 3339), C description, D amount, E category.
const (
	colID = iota
	colDate
	colDescription
	colAmount
	colCategory
	numCols
)

var header = []any{"id", "date", "description", "amount", "category"}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.Remote = (*Client)(nil)

type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON []byte
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if len(cfg.CredentialsJSON) == 0 {
		return nil, errors.New("missing service account credentials")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(cfg.CredentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(cfg.CredentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

// NewWithService wraps an existing service. An empty sheetName selects "Gastos".
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string) *Client {
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Gastos"
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: strings.TrimSpace(sheetName)}
}

// Push writes e on the first empty row, writing the header first when the
// sheet is empty.
func (c *Client) Push(ctx context.Context, e core.Expense) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return classify(fmt.Sprintf("get sheet dimensions for %s", c.sheetName), err)
	}

	rows := [][]any{toRow(e)}
	nextRow := len(resp.Values) + 1
	if nextRow == 1 {
		rows = [][]any{header, toRow(e)}
	}

	dataRange := fmt.Sprintf("%s!A%d:E%d", c.sheetName, nextRow, nextRow+len(rows)-1)
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return classify(fmt.Sprintf("update %s", dataRange), err)
	}
	return nil
}

// Pull reads every data row. Rows that cannot be parsed are skipped.
func (c *Client) Pull(ctx context.Context) ([]core.Expense, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A2:E", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, classify(fmt.Sprintf("read %s", rng), err)
	}

	out := make([]core.Expense, 0, len(resp.Values))
	for i, row := range resp.Values {
		e, err := parseRow(toStrings(row))
		if err != nil {
			slog.DebugContext(ctx, "Skipping sheet row", "row", i+2, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// classify maps API failures onto the sync error kinds: 4xx responses are
// rejections, everything else means the sheet could not be reached.
func classify(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 {
		return fmt.Errorf("%w: %s: %v", core.ErrSyncRejected, op, err)
	}
	return fmt.Errorf("%w: %s: %v", core.ErrSyncUnreachable, op, err)
}
