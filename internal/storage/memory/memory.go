// Package memory provides an in-process store with the same contract as the
// SQLite repository. Used by tests and the "memory" data backend.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"lapak/internal/core"
)

type Store struct {
	mu      sync.Mutex
	nextID  int64
	txs     []core.Transaction
	blue    []core.WithdrawalEvent
	cempaka []core.WithdrawalEvent
}

func New() *Store {
	return &Store{nextID: 1}
}

// CreateSale appends all lines of a submission under one lock, so the batch
// lands whole like the SQLite transaction does.
func (s *Store) CreateSale(_ context.Context, txs []core.Transaction) ([]core.Transaction, error) {
	if len(txs) == 0 {
		return nil, fmt.Errorf("create sale: no line items")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, len(txs))
	for i, t := range txs {
		t.ID = s.nextID
		s.nextID++
		out[i] = t
	}
	s.txs = append(s.txs, out...)
	return out, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.txs {
		if t.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *Store) Transactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) CreateWithdrawal(_ context.Context, stream core.Stream, w core.WithdrawalEvent) (core.WithdrawalEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.ID = s.nextID
	s.nextID++
	switch stream {
	case core.StreamBlue:
		s.blue = append(s.blue, w)
	case core.StreamCempaka:
		s.cempaka = append(s.cempaka, w)
	default:
		return core.WithdrawalEvent{}, fmt.Errorf("unknown withdrawal stream %q", stream)
	}
	return w, nil
}

func (s *Store) DeleteWithdrawal(_ context.Context, stream core.Stream, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list *[]core.WithdrawalEvent
	switch stream {
	case core.StreamBlue:
		list = &s.blue
	case core.StreamCempaka:
		list = &s.cempaka
	default:
		return fmt.Errorf("unknown withdrawal stream %q", stream)
	}
	for i, w := range *list {
		if w.ID == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *Store) Withdrawals(_ context.Context, stream core.Stream) ([]core.WithdrawalEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var src []core.WithdrawalEvent
	switch stream {
	case core.StreamBlue:
		src = s.blue
	case core.StreamCempaka:
		src = s.cempaka
	default:
		return nil, fmt.Errorf("unknown withdrawal stream %q", stream)
	}
	out := make([]core.WithdrawalEvent, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) Close() error {
	return nil
}
