package service

import (
	"context"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type AccountRepository interface {
	FindByNumber(ctx context.Context, number string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, args repoargs.AccountCreate) (*domain.Account, error)
	UpdateBalance(ctx context.Context, args repoargs.AccountBalanceUpdate) (*domain.Account, error)
}

type RiskRuleRepository interface {
	FindActiveByCurrency(ctx context.Context, currency string) (*domain.RiskRule, error)
	Create(ctx context.Context, args repoargs.RiskRuleCreate) (*domain.RiskRule, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error)
	GetByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

type CreditCardRepository interface {
	Create(ctx context.Context, args repoargs.CreditCardCreate) (*domain.CreditCard, error)
	FindByID(ctx context.Context, id string) (*domain.CreditCard, error)
	GetAll(ctx context.Context) ([]domain.CreditCard, error)
}

type RiskEvaluator interface {
	IsAllowed(ctx context.Context, currency string, txType string, amount decimal.Decimal) (bool, error)
}

// TransactionPublisher канал доставки зафиксированных транзакций живым подписчикам.
type TransactionPublisher interface {
	Publish(transaction domain.Transaction) error
}
