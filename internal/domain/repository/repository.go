package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xausdorf/cashi/internal/domain/payment"
)

var (
	ErrNotFound = errors.New("not found")
	ErrClosed   = errors.New("store closed")
)

// TransactionStore is the live document collection holding payment history.
// Append is a single best-effort write: appending the same record twice
// stores two copies.
//
//go:generate mockgen -destination=../../usecase/submit/mocks/store_mock.go -package=mocks github.com/Xausdorf/cashi/internal/domain/repository TransactionStore
type TransactionStore interface {
	Append(ctx context.Context, record payment.Record) (string, error)
	Subscribe(ctx context.Context) (*Subscription, error)
}

// PaymentLog is the mock backend's own persistence.
type PaymentLog interface {
	Insert(ctx context.Context, record payment.Record) error
	List(ctx context.Context) ([]payment.Record, error)
	Get(ctx context.Context, id int64) (*payment.Record, error)
}

type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// WrapError tags err with the failing store operation. A nil err stays nil and
// an existing *StoreError is returned as is.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
