package receipt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	domainreceipt "github.com/Xausdorf/cashi/internal/domain/receipt"
	"github.com/Xausdorf/cashi/internal/domain/repository"
	"github.com/Xausdorf/cashi/internal/usecase/receipt"
)

type stubLog struct {
	record *payment.Record
}

func (s stubLog) Insert(context.Context, payment.Record) error { return errors.New("read only") }

func (s stubLog) List(context.Context) ([]payment.Record, error) { return nil, nil }

func (s stubLog) Get(_ context.Context, id int64) (*payment.Record, error) {
	if s.record == nil || s.record.ID != id {
		return nil, repository.ErrNotFound
	}
	return s.record, nil
}

type captureGenerator struct {
	got domainreceipt.Data
}

func (c *captureGenerator) Generate(data domainreceipt.Data) ([]byte, error) {
	c.got = data
	return []byte("png"), nil
}

func TestUseCase_Execute(t *testing.T) {
	gen := &captureGenerator{}
	uc := receipt.NewUseCase(stubLog{record: &payment.Record{
		ID: 7, TransactionID: "TXN_7_abcdefghi", RecipientEmail: "alice@example.com",
		Amount: 12.5, Currency: "USD", Status: "processed", Timestamp: "2024-06-10T06:13:20.000Z",
	}}, gen)

	out, err := uc.Execute(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, []byte("png"), out)
	assert.Equal(t, "TXN_7_abcdefghi", gen.got.TransactionID)
	assert.InDelta(t, 12.5, gen.got.Amount, 1e-9)
}

func TestUseCase_Execute_NotFound(t *testing.T) {
	uc := receipt.NewUseCase(stubLog{}, &captureGenerator{})

	_, err := uc.Execute(context.Background(), 1)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}
