package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"gastos/internal/core"
)

// ExpenseCreatedMessage carries a freshly added expense to the replication
// worker. The full record travels in the message since the remote sheet
// needs every column.
type ExpenseCreatedMessage struct {
	MessageID string       `json:"message_id"`
	Expense   core.Expense `json:"expense"`
	Timestamp time.Time    `json:"timestamp"`
}

func NewExpenseCreatedMessage(e core.Expense) *ExpenseCreatedMessage {
	return &ExpenseCreatedMessage{
		MessageID: uuid.NewString(),
		Expense:   e,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseCreatedMessageFromJSON decodes a message and rejects one without
// an expense id.
func ExpenseCreatedMessageFromJSON(data []byte) (*ExpenseCreatedMessage, error) {
	var msg ExpenseCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Expense.ID == "" {
		return nil, errors.New("message has no expense id")
	}
	return &msg, nil
}
