// Package app wires configuration into the client use cases and the mock
// backend. Dependencies are built here and passed down explicitly.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	httpdelivery "github.com/Xausdorf/cashi/internal/delivery/http"
	"github.com/Xausdorf/cashi/internal/domain/repository"
	"github.com/Xausdorf/cashi/internal/infrastructure/badgerstore"
	"github.com/Xausdorf/cashi/internal/infrastructure/config"
	"github.com/Xausdorf/cashi/internal/infrastructure/jsondb"
	"github.com/Xausdorf/cashi/internal/infrastructure/memstore"
	"github.com/Xausdorf/cashi/internal/infrastructure/paymentapi"
	"github.com/Xausdorf/cashi/internal/infrastructure/postgres"
	"github.com/Xausdorf/cashi/internal/infrastructure/qrgenerator"
	"github.com/Xausdorf/cashi/internal/infrastructure/redisstore"
	"github.com/Xausdorf/cashi/internal/usecase/charge"
	"github.com/Xausdorf/cashi/internal/usecase/history"
	"github.com/Xausdorf/cashi/internal/usecase/receipt"
	"github.com/Xausdorf/cashi/internal/usecase/submit"
)

const receiptQRSize = 256

type App struct {
	Submit  *submit.UseCase
	History *history.UseCase

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	client := paymentapi.NewClient(paymentapi.Config{
		BaseURL:        cfg.APIURL,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
	})

	a.Submit = submit.NewUseCase(client, store, logger)
	a.History = history.NewUseCase(store)
	return a, nil
}

// Close releases the store backends in reverse order of opening.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (repository.TransactionStore, error) {
	switch cfg.Store {
	case config.StoreMemory:
		s := memstore.New()
		a.closers = append(a.closers, s.Close)
		return s, nil

	case config.StoreBadger:
		s, err := badgerstore.Open(cfg.BadgerDir)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return redisstore.New(client, cfg.RedisKey), nil

	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		s := postgres.NewTransactionStore(pool)
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("schema init failed: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// NewMockBackend builds the mock payment API over the JSON database at dbPath.
func NewMockBackend(dbPath string, logger *slog.Logger) (http.Handler, error) {
	db, err := jsondb.Open(dbPath)
	if err != nil {
		return nil, err
	}

	chargeUC := charge.NewUseCase(db)
	receiptUC := receipt.NewUseCase(db, qrgenerator.NewGenerator(receiptQRSize))

	handler := httpdelivery.NewHandler(chargeUC, receiptUC, db, logger)
	return httpdelivery.NewRouter(handler), nil
}
