// Package qrgenerator renders payment receipts as PNG QR codes.
package qrgenerator

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	qr "github.com/skip2/go-qrcode"

	"github.com/Xausdorf/cashi/internal/domain/receipt"
)

const defaultSize = 256

type Generator struct {
	size  int
	level qr.RecoveryLevel
}

// NewGenerator returns a generator producing size x size images. A
// non-positive size falls back to 256.
func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = defaultSize
	}
	return &Generator{size: size, level: qr.Medium}
}

func (g *Generator) WithRecoveryLevel(level qr.RecoveryLevel) *Generator {
	g.level = level
	return g
}

// payload is what a scanner reads back. The amount is carried as a fixed
// two-decimal string so the receipt never shows float artefacts.
type payload struct {
	TransactionID string `json:"txn"`
	Recipient     string `json:"to"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	Timestamp     string `json:"at"`
}

// Generate encodes the receipt as JSON inside a PNG QR code.
func (g *Generator) Generate(data receipt.Data) ([]byte, error) {
	if data.TransactionID == "" {
		return nil, fmt.Errorf("receipt without transaction id")
	}

	content, err := json.Marshal(payload{
		TransactionID: data.TransactionID,
		Recipient:     data.RecipientEmail,
		Amount:        decimal.NewFromFloat(data.Amount).StringFixed(2),
		Currency:      data.Currency,
		Status:        data.Status,
		Timestamp:     data.Timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal receipt: %w", err)
	}

	png, err := qr.Encode(string(content), g.level, g.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr: %w", err)
	}
	return png, nil
}
