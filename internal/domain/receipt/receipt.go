package receipt

type Data struct {
	TransactionID  string  `json:"transactionId"`
	RecipientEmail string  `json:"recipientEmail"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Status         string  `json:"status"`
	Timestamp      string  `json:"timestamp"`
}

type Generator interface {
	Generate(data Data) ([]byte, error)
}
