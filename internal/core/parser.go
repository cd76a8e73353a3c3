package core

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Parser turns free-form lines into Expense records. It keeps no state
// between calls and is safe for concurrent use.
type Parser struct {
	classifier  *Classifier
	newID       func() string
	concurrency int
}

type ParserOption func(*Parser)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(fn func() string) ParserOption {
	return func(p *Parser) {
		p.newID = fn
	}
}

// WithConcurrency bounds how many lines of a batch are parsed at once.
func WithConcurrency(n int) ParserOption {
	return func(p *Parser) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

func NewParser(table *CategoryTable, opts ...ParserOption) *Parser {
	p := &Parser{
		classifier:  NewClassifier(table),
		newID:       uuid.NewString,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Table returns the category table used for classification.
func (p *Parser) Table() *CategoryTable {
	return p.classifier.Table()
}

// ParseLine parses one line. A number outside the date cue is preferred as
// the amount; when there is none, the first number of the line is used even
// if it belongs to the cue. It fails with ErrNoAmount when the line has no
// number at all and with ErrInvalidNumeric when the number cannot be read as
// a positive decimal.
func (p *Parser) ParseLine(raw string, now time.Time) (Expense, error) {
	line := strings.TrimSpace(raw)
	date := ResolveDate(line, now)

	amount, err := parseAmountOutside(line, date.Span())
	if errors.Is(err, ErrNoAmount) && !date.Span().Empty() {
		amount, err = ParseAmount(line)
	}
	if err != nil {
		return Expense{}, err
	}

	desc := NormalizeDescription(line, amount.Span(), date.Span())
	return Expense{
		ID:          p.newID(),
		Amount:      amount.Value,
		Description: desc,
		Category:    p.classifier.Classify(desc),
		Date:        date.Date,
	}, nil
}

// BatchResult is the outcome of a multi-line add. Added keeps input order.
type BatchResult struct {
	Added  []Expense
	Failed []*ParseError
}

func (r BatchResult) AddedCount() int {
	return len(r.Added)
}

func (r BatchResult) FailedCount() int {
	return len(r.Failed)
}

// ParseBatch parses every non-blank line of text independently. A failing
// line never aborts the batch; the only error returned is ctx's.
func (p *Parser) ParseBatch(ctx context.Context, text string, now time.Time) (BatchResult, error) {
	lines := strings.Split(text, "\n")

	type outcome struct {
		expense Expense
		err     *ParseError
		skip    bool
	}
	outcomes := make([]outcome, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			outcomes[i].skip = true
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e, err := p.ParseLine(line, now)
			if err != nil {
				outcomes[i].err = &ParseError{Line: i + 1, Text: line, Err: err}
				return nil
			}
			outcomes[i].expense = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	var res BatchResult
	for _, o := range outcomes {
		switch {
		case o.skip:
		case o.err != nil:
			res.Failed = append(res.Failed, o.err)
		default:
			res.Added = append(res.Added, o.expense)
		}
	}
	return res, nil
}
