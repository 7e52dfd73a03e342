package postgres

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	"github.com/Xausdorf/cashi/internal/domain/repository"
)

const (
	channel        = "payment_documents"
	releaseTimeout = 5 * time.Second
)

const schema = `CREATE TABLE IF NOT EXISTS payment_documents (
	seq        BIGSERIAL PRIMARY KEY,
	id         UUID NOT NULL UNIQUE,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// TransactionStore keeps one row per appended payment document. Appends are
// announced with NOTIFY; subscribers hold a dedicated connection that LISTENs.
type TransactionStore struct {
	pool *pgxpool.Pool
}

func NewTransactionStore(pool *pgxpool.Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

func (s *TransactionStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *TransactionStore) Append(ctx context.Context, record payment.Record) (string, error) {
	contents, err := json.Marshal(&record)
	if err != nil {
		return "", repository.WrapError("append", fmt.Errorf("failed to marshal payment: %w", err))
	}

	id := uuid.New()
	_, err = s.pool.Exec(ctx,
		`WITH ins AS (
			INSERT INTO payment_documents (id, payload) VALUES ($1, $2) RETURNING id
		 )
		 SELECT pg_notify($3, id::text) FROM ins`,
		id, contents, channel,
	)
	if err != nil {
		return "", repository.WrapError("append", err)
	}
	return id.String(), nil
}

func (s *TransactionStore) Subscribe(ctx context.Context) (*repository.Subscription, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, repository.WrapError("subscribe", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, repository.WrapError("subscribe", err)
	}

	return repository.Watch(ctx, func(ctx context.Context, emit repository.Emit) error {
		defer release(conn)

		for {
			snapshot, err := s.load(ctx)
			if err != nil {
				return err
			}
			if !emit(snapshot) {
				return nil
			}
			if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
				return err
			}
		}
	}), nil
}

func (s *TransactionStore) load(ctx context.Context) ([]payment.Record, error) {
	rows, err := s.pool.Query(ctx, `SELECT payload FROM payment_documents ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []payment.Record{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var record payment.Record
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payment: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// release stops listening before handing the connection back. A connection
// that cannot UNLISTEN is closed instead of returned to the pool.
func release(conn *pgxpool.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if _, err := conn.Exec(ctx, "UNLISTEN *"); err != nil {
		_ = conn.Conn().Close(ctx)
	}
	conn.Release()
}
