package events

import (
	"time"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	TransactionCreated = "transaction.created"

	DefaultStream = "transaction.events"
)

// Event конверт сообщения в потоке Redis. Сериализуется в поле "event".
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type TransactionCreatedEvent struct {
	ID        string          `json:"id"`
	AccountID string          `json:"accountId"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
	Status    string          `json:"status"`
	Reason    string          `json:"reason,omitempty"`
}

func newTransactionCreatedEvent(tx domain.Transaction) TransactionCreatedEvent {
	return TransactionCreatedEvent{
		ID:        tx.ID,
		AccountID: tx.AccountID,
		Type:      string(tx.Type),
		Amount:    tx.Amount,
		Timestamp: tx.Timestamp,
		Status:    string(tx.Status),
		Reason:    tx.Reason,
	}
}
