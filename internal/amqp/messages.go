package amqp

import (
	"encoding/json"
	"time"

	"lifeadmin/internal/core"
)

// TransactionRecordedMessage carries the full recorded transaction so the
// worker can mirror it to the ledger sheet without a database round-trip.
type TransactionRecordedMessage struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewTransactionRecordedMessage builds the event payload from a recorded
// transaction.
func NewTransactionRecordedMessage(tx core.Transaction) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Date:        tx.Date,
		Type:        string(tx.Type),
		Timestamp:   tx.CreatedAt,
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionRecordedMessageFromJSON creates a message from JSON bytes
func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
