package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/transactions-service/internal/broadcast"
	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/service"
)

type TransactionServicer interface {
	Create(ctx context.Context, args service.CreateTransactionArgs) (*domain.Transaction, error)
	ByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
}

type CreditCardServicer interface {
	Register(ctx context.Context, args service.RegisterCardArgs) (*domain.CreditCard, error)
	GetAll(ctx context.Context) ([]domain.CreditCard, error)
	GetByID(ctx context.Context, id string) (*domain.CreditCard, error)
}

// StreamSource источник живых транзакций для SSE.
type StreamSource interface {
	Subscribe() (*broadcast.Subscription[domain.Transaction], error)
}
