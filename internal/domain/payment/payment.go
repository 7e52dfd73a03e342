package payment

import (
	"context"
)

type Request struct {
	Amount         float64 `json:"amount"`
	RecipientEmail string  `json:"recipientEmail"`
	Currency       string  `json:"currency"`
}

// Record is the server-confirmed payment. ID and TransactionID are assigned
// remotely and never change afterwards.
type Record struct {
	ID             int64   `json:"id"`
	TransactionID  string  `json:"transactionId"`
	RecipientEmail string  `json:"recipientEmail"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Status         string  `json:"status"`
	Timestamp      string  `json:"timestamp"`
}

type Response struct {
	Payment Record
	Message string
}

//go:generate mockgen -destination=../../usecase/submit/mocks/client_mock.go -package=mocks github.com/Xausdorf/cashi/internal/domain/payment Client
type Client interface {
	SubmitPayment(ctx context.Context, req Request) (*Response, error)
}
