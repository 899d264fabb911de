package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/repository/repoargs"
	"github.com/fsdevblog/transactions-service/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreditCardService struct {
	cardRepo CreditCardRepository
	newID    func() string
}

func NewCreditCardService(u uow.UOW) (*CreditCardService, error) {
	cardRepo, err := uow.GetRepositoryAs[CreditCardRepository](u, uow.RepositoryName(repoargs.CreditCardRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &CreditCardService{cardRepo: cardRepo, newID: uuid.NewString}, nil
}

type RegisterCardArgs struct {
	CardNumber    string
	AccountHolder string
	Balance       decimal.Decimal
	CreditLimit   decimal.Decimal
}

// Register регистрирует карту. Если карта с таким номером уже есть - domain.ErrCardAlreadyRegistered.
func (c *CreditCardService) Register(ctx context.Context, args RegisterCardArgs) (*domain.CreditCard, error) {
	card, err := c.cardRepo.Create(ctx, repoargs.CreditCardCreate{
		ID:            c.newID(),
		CardNumber:    args.CardNumber,
		AccountHolder: args.AccountHolder,
		Balance:       args.Balance,
		CreditLimit:   args.CreditLimit,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrCardAlreadyRegistered
		}
		return nil, fmt.Errorf("registering credit card: %w", err)
	}
	return card, nil
}

func (c *CreditCardService) GetAll(ctx context.Context) ([]domain.CreditCard, error) {
	cards, err := c.cardRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing credit cards: %w", err)
	}
	return cards, nil
}

// GetByID возвращает карту или domain.ErrCardNotFound.
func (c *CreditCardService) GetByID(ctx context.Context, id string) (*domain.CreditCard, error) {
	card, err := c.cardRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrCardNotFound
		}
		return nil, fmt.Errorf("getting credit card: %w", err)
	}
	return card, nil
}
