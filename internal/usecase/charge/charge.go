// Package charge implements the mock payment backend: it checks a payment
// request, fabricates the processed record and logs it.
package charge

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	"github.com/Xausdorf/cashi/internal/domain/repository"
)

const (
	StatusProcessed = "processed"
	SuccessMessage  = "Payment processed successfully"

	timestampLayout = "2006-01-02T15:04:05.000Z"
)

var (
	emailRegex          = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	denylistedEmails    = []string{"test@gmail.com", "test2@gmail.com"}
	supportedCurrencies = []string{"USD", "EUR"}
	amountCeiling       = decimal.NewFromInt(10000)
)

// Request carries the decoded JSON fields untyped so that missing, null and
// wrongly typed values can be told apart.
type Request struct {
	RecipientEmail any
	Amount         any
	Currency       any
}

// Rejection is a request refused by one of the checks.
type Rejection struct {
	Code    string
	Message string
}

func (r *Rejection) Error() string {
	return r.Code + ": " + r.Message
}

type UseCase struct {
	log repository.PaymentLog
	now func() time.Time

	mu     sync.Mutex
	lastID int64
}

func NewUseCase(log repository.PaymentLog) *UseCase {
	return &UseCase{log: log, now: time.Now}
}

// WithClock replaces the time source.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Execute runs the checks in order, first failure wins: missing fields,
// email, amount, currency, amount ceiling. The ceiling answers
// INSUFFICIENT_FUNDS; there is no balance behind it.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*payment.Record, error) {
	if !truthy(req.RecipientEmail) || !truthy(req.Amount) || !truthy(req.Currency) {
		return nil, &Rejection{
			Code:    payment.CodeMissingRequiredFields,
			Message: "Missing required fields. Please provide recipientEmail, amount, and currency.",
		}
	}

	email, ok := req.RecipientEmail.(string)
	if !ok || !emailRegex.MatchString(email) || slices.Contains(denylistedEmails, email) {
		return nil, &Rejection{
			Code:    payment.CodeInvalidEmail,
			Message: fmt.Sprintf("%v is not a valid receipient address", req.RecipientEmail),
		}
	}

	amount, ok := req.Amount.(float64)
	if !ok || amount <= 0 {
		return nil, &Rejection{
			Code:    payment.CodeInvalidAmount,
			Message: "Amount must be a positive number",
		}
	}

	currency, ok := req.Currency.(string)
	currency = strings.ToUpper(currency)
	if !ok || !slices.Contains(supportedCurrencies, currency) {
		return nil, &Rejection{
			Code:    payment.CodeInvalidCurrency,
			Message: "Invalid currency. Supported currencies: USD, EUR",
		}
	}

	if decimal.NewFromFloat(amount).GreaterThan(amountCeiling) {
		return nil, &Rejection{
			Code:    payment.CodeInsufficientFunds,
			Message: "Insufficient funds",
		}
	}

	id := uc.nextID()
	record := payment.Record{
		ID:             id,
		TransactionID:  fmt.Sprintf("TXN_%d_%s", id, randomSuffix()),
		RecipientEmail: email,
		Amount:         amount,
		Currency:       currency,
		Status:         StatusProcessed,
		Timestamp:      time.UnixMilli(id).UTC().Format(timestampLayout),
	}

	if err := uc.log.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store payment: %w", err)
	}
	return &record, nil
}

// nextID returns the current unix millisecond, bumped past the previous id
// so two payments in the same millisecond stay distinct.
func (uc *UseCase) nextID() int64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	id := uc.now().UnixMilli()
	if id <= uc.lastID {
		id = uc.lastID + 1
	}
	uc.lastID = id
	return id
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// truthy follows the backend's JavaScript truthiness for decoded JSON values.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	default:
		return true
	}
}
