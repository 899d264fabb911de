package repoargs

import (
	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountCreate struct {
	ID         string
	Number     string
	HolderName string
	Status     domain.AccountStatusType
	Type       string
	Currency   string
	Balance    decimal.Decimal
}

// AccountBalanceUpdate новое значение баланса. ExpectedVersion - версия записи, прочитанная перед изменением.
type AccountBalanceUpdate struct {
	ID              string
	Balance         decimal.Decimal
	ExpectedVersion int64
}
