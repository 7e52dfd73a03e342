package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	"github.com/Xausdorf/cashi/internal/domain/repository"
	"github.com/Xausdorf/cashi/internal/infrastructure/redisstore"
)

func setup(t *testing.T) (*miniredis.Miniredis, *redisstore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisstore.New(client, "transactions").WithHealthCheck(100 * time.Millisecond)
}

func drain(t *testing.T, sub *repository.Subscription) {
	t.Helper()
	ended := make(chan struct{})
	go func() {
		defer close(ended)
		for range sub.Snapshots() {
		}
	}()
	select {
	case <-ended:
	case <-time.After(3 * time.Second):
		t.Fatal("subscription did not end")
	}
}

func next(t *testing.T, sub *repository.Subscription) []payment.Record {
	t.Helper()
	select {
	case snapshot, ok := <-sub.Snapshots():
		if !ok {
			t.Fatalf("subscription ended: %v", sub.Err())
		}
		return snapshot
	case <-time.After(3 * time.Second):
		t.Fatal("no snapshot received")
		return nil
	}
}

func TestStore_SubscribePushesAppends(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()

	_, err := store.Append(ctx, payment.Record{ID: 1, Currency: "USD"})
	require.NoError(t, err)

	sub, err := store.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Cancel()

	first := next(t, sub)
	require.Len(t, first, 1)
	assert.Equal(t, int64(1), first[0].ID)

	_, err = store.Append(ctx, payment.Record{ID: 2, Currency: "EUR"})
	require.NoError(t, err)

	second := next(t, sub)
	require.Len(t, second, 2)
	assert.Equal(t, int64(2), second[1].ID)
	assert.Equal(t, "EUR", second[1].Currency)
}

func TestStore_AppendWritesListAndReturnsID(t *testing.T) {
	mr, store := setup(t)

	id, err := store.Append(context.Background(), payment.Record{ID: 9})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	items, err := mr.List("transactions")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Contains(t, items[0], id)
}

func TestStore_ServerFailureEndsSubscription(t *testing.T) {
	mr, store := setup(t)

	sub, err := store.Subscribe(context.Background())
	require.NoError(t, err)
	next(t, sub)

	mr.Close()

	drain(t, sub)
	var storeErr *repository.StoreError
	assert.ErrorAs(t, sub.Err(), &storeErr)
}

func TestStore_CancelReleasesListener(t *testing.T) {
	mr, store := setup(t)

	sub, err := store.Subscribe(context.Background())
	require.NoError(t, err)
	next(t, sub)

	cancelled := make(chan struct{})
	go func() {
		sub.Cancel()
		close(cancelled)
	}()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("Cancel did not return")
	}
	require.NoError(t, sub.Err())

	_, err = store.Append(context.Background(), payment.Record{ID: 2})
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 1)
}

func TestStore_ContextCancelEndsIdleSubscription(t *testing.T) {
	_, store := setup(t)
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := store.Subscribe(ctx)
	require.NoError(t, err)
	next(t, sub)

	cancel()

	drain(t, sub)
	assert.NoError(t, sub.Err())
}

func TestStore_SubscribeAgainAfterCancel(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()

	first, err := store.Subscribe(ctx)
	require.NoError(t, err)
	next(t, first)
	first.Cancel()

	_, err = store.Append(ctx, payment.Record{ID: 3})
	require.NoError(t, err)

	second, err := store.Subscribe(ctx)
	require.NoError(t, err)
	defer second.Cancel()

	snapshot := next(t, second)
	require.Len(t, snapshot, 1)
	assert.Equal(t, int64(3), snapshot[0].ID)
}

func TestStore_AppendFailsWhenServerDown(t *testing.T) {
	mr, store := setup(t)
	mr.Close()

	_, err := store.Append(context.Background(), payment.Record{ID: 1})

	var storeErr *repository.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "append", storeErr.Op)
}
