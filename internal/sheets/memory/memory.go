package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gastos/internal/core"
	ports "gastos/internal/sheets"
)

var _ ports.Remote = (*Store)(nil)

// Store is an in-process remote used for local runs and tests.
type Store struct {
	mu    sync.Mutex
	items []core.Expense
	fail  error
}

func New(seed []core.Expense) *Store {
	return &Store{items: dedupe(seed)}
}

// NewFromFile seeds the store from a JSON array file. A missing file yields
// an empty store.
func NewFromFile(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	coll, err := core.DecodeCollection(b)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return New(coll), nil
}

// Push appends e. Pushing an id twice keeps the first copy.
func (s *Store) Push(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	for _, it := range s.items {
		if it.ID == e.ID {
			return nil
		}
	}
	s.items = append(s.items, e)
	return nil
}

func (s *Store) Pull(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	return append([]core.Expense{}, s.items...), nil
}

// SetFailure makes every later call return err until it is reset with nil.
func (s *Store) SetFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func dedupe(in []core.Expense) []core.Expense {
	seen := map[string]struct{}{}
	out := make([]core.Expense, 0, len(in))
	for _, e := range in {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}
