// Package redisstore keeps the transaction history in a Redis list and
// announces every append on a pub/sub channel.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	"github.com/Xausdorf/cashi/internal/domain/repository"
)

type document struct {
	ID      string         `json:"id"`
	Payment payment.Record `json:"payment"`
}

const defaultHealthCheck = 3 * time.Second

type Store struct {
	client      *redis.Client
	key         string
	channel     string
	healthCheck time.Duration
}

// New uses key for the list and key+":events" for notifications.
func New(client *redis.Client, key string) *Store {
	return &Store{
		client:      client,
		key:         key,
		channel:     key + ":events",
		healthCheck: defaultHealthCheck,
	}
}

// WithHealthCheck sets how long a subscription may sit idle before the
// server is pinged.
func (s *Store) WithHealthCheck(d time.Duration) *Store {
	if d > 0 {
		s.healthCheck = d
	}
	return s
}

func (s *Store) Append(ctx context.Context, record payment.Record) (string, error) {
	doc := document{ID: uuid.NewString(), Payment: record}
	contents, err := json.Marshal(doc)
	if err != nil {
		return "", repository.WrapError("append", fmt.Errorf("failed to marshal payment: %w", err))
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, s.key, contents)
		pipe.Publish(ctx, s.channel, doc.ID)
		return nil
	})
	if err != nil {
		return "", repository.WrapError("append", err)
	}
	return doc.ID, nil
}

func (s *Store) Subscribe(ctx context.Context) (*repository.Subscription, error) {
	ps := s.client.Subscribe(ctx, s.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, repository.WrapError("subscribe", err)
	}

	return repository.Watch(ctx, func(ctx context.Context, emit repository.Emit) error {
		// A blocked pub/sub read does not observe ctx, closing the
		// connection is what unblocks it.
		stop := context.AfterFunc(ctx, func() { _ = ps.Close() })
		defer func() {
			stop()
			_ = ps.Close()
		}()

		for {
			snapshot, err := s.load(ctx)
			if err != nil {
				return err
			}
			if !emit(snapshot) {
				return nil
			}
			if err := s.await(ctx, ps); err != nil {
				return err
			}
		}
	}), nil
}

// await blocks until the next append is announced. While idle the server is
// pinged every health check interval so a dead server ends the stream.
func (s *Store) await(ctx context.Context, ps *redis.PubSub) error {
	for {
		msg, err := ps.ReceiveTimeout(ctx, s.healthCheck)
		if err != nil {
			if !isTimeout(err) {
				return err
			}
			if err := s.client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			continue
		}
		if _, ok := msg.(*redis.Message); ok {
			return nil
		}
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (s *Store) load(ctx context.Context) ([]payment.Record, error) {
	values, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]payment.Record, 0, len(values))
	for _, v := range values {
		var doc document
		if err := json.Unmarshal([]byte(v), &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payment: %w", err)
		}
		records = append(records, doc.Payment)
	}
	return records, nil
}
