// Package jsondb is the mock backend's file database: a single JSON document
// of named collections, of which only "payments" is managed here. Other
// top-level collections are preserved on write.
package jsondb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	"github.com/Xausdorf/cashi/internal/domain/repository"
)

const paymentsCollection = "payments"

type DB struct {
	path string

	mu       sync.Mutex
	loaded   bool
	other    map[string]json.RawMessage
	payments []payment.Record
}

func Open(path string) (*DB, error) {
	db := &DB{path: path}
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.load(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) Insert(_ context.Context, record payment.Record) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.load(); err != nil {
		return err
	}
	db.payments = append(db.payments, record)
	if err := db.write(); err != nil {
		db.payments = db.payments[:len(db.payments)-1]
		return err
	}
	return nil
}

func (db *DB) List(_ context.Context) ([]payment.Record, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.load(); err != nil {
		return nil, err
	}
	out := make([]payment.Record, len(db.payments))
	copy(out, db.payments)
	return out, nil
}

func (db *DB) Get(_ context.Context, id int64) (*payment.Record, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.load(); err != nil {
		return nil, err
	}
	for i := range db.payments {
		if db.payments[i].ID == id {
			r := db.payments[i]
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (db *DB) load() error {
	if db.loaded {
		return nil
	}

	raw, err := os.ReadFile(db.path)
	if errors.Is(err, os.ErrNotExist) {
		db.other = map[string]json.RawMessage{}
		db.payments = []payment.Record{}
		db.loaded = true
		return db.write()
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", db.path, err)
	}

	doc := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", db.path, err)
		}
	}

	payments := []payment.Record{}
	if rawPayments, ok := doc[paymentsCollection]; ok {
		if err := json.Unmarshal(rawPayments, &payments); err != nil {
			return fmt.Errorf("failed to parse %s collection: %w", paymentsCollection, err)
		}
		delete(doc, paymentsCollection)
	}

	db.other = doc
	db.payments = payments
	db.loaded = true
	return nil
}

func (db *DB) write() error {
	doc := make(map[string]any, len(db.other)+1)
	for k, v := range db.other {
		doc[k] = v
	}
	doc[paymentsCollection] = db.payments

	contents, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal database: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(db.path), ".jsondb-*")
	if err != nil {
		return fmt.Errorf("failed to write database: %w", err)
	}
	if _, err := tmp.Write(contents); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write database: %w", err)
	}
	if err := os.Rename(tmp.Name(), db.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write database: %w", err)
	}
	return nil
}
