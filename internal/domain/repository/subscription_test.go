package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	"github.com/Xausdorf/cashi/internal/domain/repository"
)

func TestWatch_CancelReleasesProducer(t *testing.T) {
	released := make(chan struct{})

	sub := repository.Watch(context.Background(), func(ctx context.Context, emit repository.Emit) error {
		defer close(released)
		emit([]payment.Record{{ID: 1}})
		<-ctx.Done()
		return ctx.Err()
	})

	snapshot := <-sub.Snapshots()
	require.Len(t, snapshot, 1)

	sub.Cancel()

	<-released
	_, open := <-sub.Snapshots()
	assert.False(t, open)
	assert.NoError(t, sub.Err())
}

func TestWatch_ProducerFailureIsStoreError(t *testing.T) {
	boom := errors.New("connection reset")

	sub := repository.Watch(context.Background(), func(context.Context, repository.Emit) error {
		return boom
	})

	for range sub.Snapshots() {
	}

	err := sub.Err()
	var storeErr *repository.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "subscribe", storeErr.Op)
	assert.ErrorIs(t, err, boom)
}

func TestWatch_EmitStopsAfterCancel(t *testing.T) {
	results := make(chan bool, 1)

	sub := repository.Watch(context.Background(), func(ctx context.Context, emit repository.Emit) error {
		<-ctx.Done()
		results <- emit(nil)
		return nil
	})
	sub.Cancel()

	assert.False(t, <-results)
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, repository.WrapError("append", nil))

	inner := &repository.StoreError{Op: "append", Err: errors.New("disk full")}
	assert.Same(t, inner, repository.WrapError("subscribe", inner))
}
