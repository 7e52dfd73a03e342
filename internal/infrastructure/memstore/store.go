// Package memstore is an in-process TransactionStore. It is the store used by
// tests and by the CLI when no persistent backend is configured.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	"github.com/Xausdorf/cashi/internal/domain/repository"
)

type Store struct {
	mu      sync.Mutex
	records []payment.Record
	ids     []string
	closed  bool
	changed chan struct{}
}

func New() *Store {
	return &Store{changed: make(chan struct{})}
}

func (s *Store) Append(_ context.Context, record payment.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", repository.WrapError("append", repository.ErrClosed)
	}

	id := uuid.NewString()
	s.records = append(s.records, record)
	s.ids = append(s.ids, id)

	close(s.changed)
	s.changed = make(chan struct{})

	return id, nil
}

func (s *Store) Subscribe(ctx context.Context) (*repository.Subscription, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, repository.WrapError("subscribe", repository.ErrClosed)
	}

	return repository.Watch(ctx, func(ctx context.Context, emit repository.Emit) error {
		for {
			snapshot, changed, closed := s.snapshot()
			if closed {
				return repository.ErrClosed
			}
			if !emit(snapshot) {
				return nil
			}
			select {
			case <-changed:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}), nil
}

// Len reports how many records have been appended.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Close ends every open subscription with ErrClosed and rejects further use.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.changed)
	return nil
}

func (s *Store) snapshot() ([]payment.Record, <-chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records), s.changed, s.closed
}
