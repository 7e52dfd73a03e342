package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	"github.com/Xausdorf/cashi/internal/domain/repository"
)

type UseCase struct {
	store repository.TransactionStore
}

func NewUseCase(store repository.TransactionStore) *UseCase {
	return &UseCase{store: store}
}

// Feed relays store snapshots sorted newest first.
type Feed struct {
	sub     *repository.Subscription
	updates chan []payment.Record
	done    chan struct{}
	once    sync.Once
}

func (uc *UseCase) Watch(ctx context.Context) (*Feed, error) {
	sub, err := uc.store.Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	f := &Feed{
		sub:     sub,
		updates: make(chan []payment.Record),
		done:    make(chan struct{}),
	}
	go f.relay()
	return f, nil
}

// List returns the current history once.
func (uc *UseCase) List(ctx context.Context) ([]payment.Record, error) {
	feed, err := uc.Watch(ctx)
	if err != nil {
		return nil, err
	}
	defer feed.Close()

	select {
	case records, ok := <-feed.Updates():
		if !ok {
			return nil, feed.Err()
		}
		return records, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Feed) Updates() <-chan []payment.Record {
	return f.updates
}

func (f *Feed) Close() {
	f.once.Do(func() { close(f.done) })
	f.sub.Cancel()
}

// Err reports why the feed ended; nil after Close.
func (f *Feed) Err() error {
	return f.sub.Err()
}

func (f *Feed) relay() {
	defer close(f.updates)

	for snapshot := range f.sub.Snapshots() {
		select {
		case f.updates <- Sorted(snapshot):
		case <-f.done:
			return
		}
	}
}

// Sorted returns a copy of records ordered by timestamp, newest first.
// Records with unparsable timestamps sort last, keeping insertion order.
func Sorted(records []payment.Record) []payment.Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b payment.Record) int {
		ta, errA := time.Parse(time.RFC3339Nano, a.Timestamp)
		tb, errB := time.Parse(time.RFC3339Nano, b.Timestamp)
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		default:
			return tb.Compare(ta)
		}
	})
	return out
}
