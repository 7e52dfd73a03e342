package receipt

import (
	"context"

	"github.com/Xausdorf/cashi/internal/domain/receipt"
	"github.com/Xausdorf/cashi/internal/domain/repository"
)

type UseCase struct {
	log       repository.PaymentLog
	generator receipt.Generator
}

func NewUseCase(log repository.PaymentLog, generator receipt.Generator) *UseCase {
	return &UseCase{log: log, generator: generator}
}

// Execute renders the stored payment id as a QR receipt PNG.
func (uc *UseCase) Execute(ctx context.Context, id int64) ([]byte, error) {
	record, err := uc.log.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.generator.Generate(receipt.Data{
		TransactionID:  record.TransactionID,
		RecipientEmail: record.RecipientEmail,
		Amount:         record.Amount,
		Currency:       record.Currency,
		Status:         record.Status,
		Timestamp:      record.Timestamp,
	})
}
