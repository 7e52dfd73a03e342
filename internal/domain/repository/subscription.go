package repository

import (
	"context"

	"github.com/Xausdorf/cashi/internal/domain/payment"
)

// Emit pushes one full snapshot to the subscriber. It returns false once the
// subscription is cancelled.
type Emit func(records []payment.Record) bool

// Producer feeds snapshots until ctx is done or the underlying listener fails.
type Producer func(ctx context.Context, emit Emit) error

// Subscription is a push stream of full history snapshots in insertion order.
type Subscription struct {
	snapshots chan []payment.Record
	cancel    context.CancelFunc
	done      chan struct{}
	err       error
}

// Watch runs produce in its own goroutine and exposes its snapshots. Errors
// returned after cancellation are dropped; any other error ends the stream
// and is reported by Err as a *StoreError.
func Watch(ctx context.Context, produce Producer) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		snapshots: make(chan []payment.Record),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer close(s.snapshots)

		err := produce(ctx, func(records []payment.Record) bool {
			select {
			case s.snapshots <- records:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil && ctx.Err() == nil {
			s.err = WrapError("subscribe", err)
		}
	}()

	return s
}

func (s *Subscription) Snapshots() <-chan []payment.Record {
	return s.snapshots
}

// Cancel detaches the subscriber and waits until the listener is released.
func (s *Subscription) Cancel() {
	s.cancel()
	<-s.done
}

// Err blocks until the stream has ended and reports why. It is nil when the
// subscriber cancelled.
func (s *Subscription) Err() error {
	<-s.done
	return s.err
}
