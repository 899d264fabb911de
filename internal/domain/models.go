package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID         string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Number     string
	HolderName string
	Status     AccountStatusType
	Type       string
	Currency   string
	Balance    decimal.Decimal
	// Version увеличивается при каждом изменении баланса, используется для оптимистичной блокировки.
	Version int64
}

type RiskRule struct {
	ID        string
	CreatedAt time.Time
	Currency  string
	// MaxDebitPerTx может отсутствовать в хранилище, тогда лимит считается нулевым.
	MaxDebitPerTx decimal.NullDecimal
}

// Limit возвращает действующий лимит списания, NULL трактуется как ноль.
func (r *RiskRule) Limit() decimal.Decimal {
	if r == nil || !r.MaxDebitPerTx.Valid {
		return decimal.Zero
	}
	return r.MaxDebitPerTx.Decimal
}

type Transaction struct {
	ID        string
	AccountID string
	Type      TransactionType
	Amount    decimal.Decimal
	Timestamp time.Time
	Status    TransactionStatusType
	Reason    string
}

type CreditCard struct {
	ID            string
	CreatedAt     time.Time
	CardNumber    string
	AccountHolder string
	Balance       decimal.Decimal
	CreditLimit   decimal.Decimal
}
