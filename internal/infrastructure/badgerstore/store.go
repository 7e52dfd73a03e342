// Package badgerstore keeps the transaction history in an embedded Badger
// database and pushes snapshots through Badger's key subscription.
package badgerstore

import (
	"context"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"
	json "github.com/goccy/go-json"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	"github.com/Xausdorf/cashi/internal/domain/repository"
)

const (
	seqBandwidth  = 100
	defaultResync = 500 * time.Millisecond
)

var (
	prefix = []byte("/transactions/")
	seqKey = []byte("/seq/transactions")
)

type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	owned  bool
	resync time.Duration
}

// Open opens (or creates) a Badger database under dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", dir, err)
	}
	s, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New wraps an already opened database. The caller keeps ownership of db.
func New(db *badger.DB) (*Store, error) {
	seq, err := db.GetSequence(seqKey, seqBandwidth)
	if err != nil {
		return nil, fmt.Errorf("failed to lease sequence: %w", err)
	}
	return &Store{db: db, seq: seq, resync: defaultResync}, nil
}

// WithResync sets how often a subscription rescans in addition to the push
// notifications it receives.
func (s *Store) WithResync(d time.Duration) *Store {
	if d > 0 {
		s.resync = d
	}
	return s
}

func (s *Store) Close() error {
	err := s.seq.Release()
	if s.owned {
		if closeErr := s.db.Close(); closeErr != nil {
			return closeErr
		}
	}
	return err
}

func (s *Store) Append(_ context.Context, record payment.Record) (string, error) {
	n, err := s.seq.Next()
	if err != nil {
		return "", repository.WrapError("append", fmt.Errorf("failed to allocate key: %w", err))
	}
	id := fmt.Sprintf("%020d", n)

	contents, err := json.Marshal(&record)
	if err != nil {
		return "", repository.WrapError("append", fmt.Errorf("failed to marshal payment: %w", err))
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(append(append([]byte{}, prefix...), id...), contents)
	})
	if err != nil {
		return "", repository.WrapError("append", fmt.Errorf("failed to set payment: %w", err))
	}
	return id, nil
}

func (s *Store) Subscribe(ctx context.Context) (*repository.Subscription, error) {
	if s.db.IsClosed() {
		return nil, repository.WrapError("subscribe", repository.ErrClosed)
	}
	return repository.Watch(ctx, s.produce), nil
}

func (s *Store) produce(ctx context.Context, emit repository.Emit) error {
	ctx, cancel := context.WithCancel(ctx)
	events := make(chan struct{}, 1)
	listener := make(chan error, 1)
	go func() {
		listener <- s.db.Subscribe(ctx, func(*badger.KVList) error {
			select {
			case events <- struct{}{}:
			default:
			}
			return nil
		}, []pb.Match{{Prefix: prefix}})
	}()

	ticker := time.NewTicker(s.resync)
	defer ticker.Stop()

	released := false
	defer func() {
		cancel()
		if !released {
			<-listener
		}
	}()

	emitted := -1
	for {
		snapshot, err := s.load()
		if err != nil {
			return err
		}
		if len(snapshot) != emitted {
			if !emit(snapshot) {
				return nil
			}
			emitted = len(snapshot)
		}

		select {
		case <-events:
		case <-ticker.C:
		case err := <-listener:
			released = true
			if err == nil && ctx.Err() == nil {
				err = repository.ErrClosed
			}
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Store) load() ([]payment.Record, error) {
	records := []payment.Record{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("failed to read payment: %w", err)
			}
			var record payment.Record
			if err := json.Unmarshal(value, &record); err != nil {
				return fmt.Errorf("failed to unmarshal payment %s: %w", it.Item().Key(), err)
			}
			records = append(records, record)
		}
		return nil
	})
	return records, err
}
