package submit

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	"github.com/Xausdorf/cashi/internal/domain/repository"
	"github.com/Xausdorf/cashi/internal/domain/validator"
)

var ErrSubmissionInFlight = errors.New("a payment submission is already in flight")

type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StatePersisting
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StatePersisting:
		return "persisting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Form is the raw user input.
type Form struct {
	RecipientEmail string
	Amount         string
	Currency       string
}

type Result struct {
	State      State
	Payment    *payment.Record
	Message    string
	DocumentID string
	Err        error
}

// Observer is told about every state transition of a submission.
type Observer func(State)

type UseCase struct {
	client   payment.Client
	store    repository.TransactionStore
	logger   *slog.Logger
	observer Observer
	inFlight atomic.Bool
}

func NewUseCase(client payment.Client, store repository.TransactionStore, logger *slog.Logger) *UseCase {
	return &UseCase{
		client:   client,
		store:    store,
		logger:   logger,
		observer: func(State) {},
	}
}

func (uc *UseCase) WithObserver(o Observer) *UseCase {
	if o != nil {
		uc.observer = o
	}
	return uc
}

// Execute validates the form, submits the payment and records it. Only one
// submission runs at a time; a concurrent call gets ErrSubmissionInFlight.
//
// A payment accepted remotely whose store write fails is still reported as
// failed and is not retried.
func (uc *UseCase) Execute(ctx context.Context, form Form) (*Result, error) {
	if !uc.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer uc.inFlight.Store(false)

	uc.observer(StateValidating)
	if err := validator.Validate(form.RecipientEmail, form.Amount, form.Currency); err != nil {
		return uc.fail(err)
	}

	amount, err := decimal.NewFromString(form.Amount)
	if err != nil {
		return uc.fail(err)
	}

	uc.observer(StateSubmitting)
	resp, err := uc.client.SubmitPayment(ctx, payment.Request{
		Amount:         amount.InexactFloat64(),
		RecipientEmail: strings.TrimSpace(form.RecipientEmail),
		Currency:       form.Currency,
	})
	if err != nil {
		return uc.fail(err)
	}

	uc.observer(StatePersisting)
	docID, err := uc.store.Append(ctx, resp.Payment)
	if err != nil {
		uc.logger.Error("payment accepted but not recorded",
			"transaction_id", resp.Payment.TransactionID,
			"error", err,
		)
		return uc.fail(repository.WrapError("append", err))
	}

	uc.observer(StateCompleted)
	return &Result{
		State:      StateCompleted,
		Payment:    &resp.Payment,
		Message:    resp.Message,
		DocumentID: docID,
	}, nil
}

func (uc *UseCase) fail(err error) (*Result, error) {
	uc.observer(StateFailed)
	return &Result{State: StateFailed, Err: err}, err
}
