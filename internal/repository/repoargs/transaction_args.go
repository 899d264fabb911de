package repoargs

import (
	"time"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionCreate struct {
	ID        string
	AccountID string
	Type      domain.TransactionType
	Amount    decimal.Decimal
	Timestamp time.Time
	Status    domain.TransactionStatusType
	Reason    string
}
