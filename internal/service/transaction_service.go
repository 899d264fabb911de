package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/repository/repoargs"
	"github.com/fsdevblog/transactions-service/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultWriteTimeout = 5 * time.Second
)

type TransactionService struct {
	uow         uow.UOW
	accountRepo AccountRepository
	txRepo      TransactionRepository
	risk        RiskEvaluator
	publisher   TransactionPublisher
	locks       *keyLock
	now         func() time.Time
	newID       func() string
	l           *logrus.Entry
}

func NewTransactionService(
	u uow.UOW,
	risk RiskEvaluator,
	publisher TransactionPublisher,
	l *logrus.Logger,
) (*TransactionService, error) {
	accountRepo, accErr := uow.GetRepositoryAs[AccountRepository](u, uow.RepositoryName(repoargs.AccountRepoName))
	if accErr != nil {
		return nil, accErr //nolint:wrapcheck
	}
	txRepo, txErr := uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName))
	if txErr != nil {
		return nil, txErr //nolint:wrapcheck
	}

	return &TransactionService{
		uow:         u,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		risk:        risk,
		publisher:   publisher,
		locks:       newKeyLock(),
		now:         time.Now,
		newID:       uuid.NewString,
		l: l.WithFields(logrus.Fields{
			"component": "service",
			"module":    "transaction",
		}),
	}, nil
}

// SetClock подменяет источник времени транзакций.
func (t *TransactionService) SetClock(now func() time.Time) *TransactionService {
	t.now = now
	return t
}

// SetIDGenerator подменяет генератор идентификаторов транзакций.
func (t *TransactionService) SetIDGenerator(newID func() string) *TransactionService {
	t.newID = newID
	return t
}

type CreateTransactionArgs struct {
	AccountNumber string
	Type          string
	Amount        decimal.Decimal
}

// Create применяет транзакцию к счету.
//
// Алгоритм работы:
//  1. Находит счет по номеру, иначе domain.ErrAccountNotFound. Тип кроме DEBIT/CREDIT дает domain.ErrUnsupportedType.
//  2. Проверяет лимит риска для валюты счета, иначе domain.ErrRiskRejected.
//  3. Для DEBIT проверяет достаточность баланса, иначе domain.ErrInsufficientFunds.
//  4. В одной транзакции БД сохраняет новый баланс и запись журнала со статусом OK.
//  5. Публикует запись подписчикам. Ошибка публикации только логируется.
//
// Все операции по одному номеру счета выполняются последовательно. Запись (шаг 4) не прерывается
// отменой контекста вызывающего, чтобы не оставлять операцию применённой наполовину.
// Ошибки хранилища возвращаются обернутыми и не являются бизнес-ошибками.
func (t *TransactionService) Create(ctx context.Context, args CreateTransactionArgs) (*domain.Transaction, error) {
	unlock, lockErr := t.locks.Lock(ctx, args.AccountNumber)
	if lockErr != nil {
		return nil, fmt.Errorf("create transaction: waiting for account lock: %w", lockErr)
	}
	defer unlock()

	account, accErr := t.findAccount(ctx, args.AccountNumber)
	if accErr != nil {
		return nil, accErr
	}

	txType := domain.TransactionType(strings.ToUpper(strings.TrimSpace(args.Type)))
	if !txType.IsKnown() {
		return nil, domain.ErrUnsupportedType
	}

	allowed, riskErr := t.risk.IsAllowed(ctx, account.Currency, string(txType), args.Amount)
	if riskErr != nil {
		return nil, fmt.Errorf("create transaction: %w", riskErr)
	}
	if !allowed {
		return nil, domain.ErrRiskRejected
	}

	if txType == domain.TransactionDebit && account.Balance.LessThan(args.Amount) {
		return nil, domain.ErrInsufficientFunds
	}

	created, applyErr := t.apply(ctx, account, txType, args.Amount)
	if applyErr != nil {
		return nil, fmt.Errorf("create transaction: %w", applyErr)
	}

	if pubErr := t.publisher.Publish(*created); pubErr != nil {
		t.l.WithError(pubErr).WithField("transactionID", created.ID).Warn("publish transaction")
	}
	return created, nil
}

// apply сохраняет новый баланс и запись журнала в одной транзакции БД.
func (t *TransactionService) apply(
	ctx context.Context,
	account *domain.Account,
	txType domain.TransactionType,
	amount decimal.Decimal,
) (*domain.Transaction, error) {
	newBalance := account.Balance.Add(amount)
	if txType == domain.TransactionDebit {
		newBalance = account.Balance.Sub(amount)
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultWriteTimeout)
	defer cancel()

	var created *domain.Transaction
	txErr := t.uow.Do(writeCtx, func(c context.Context, tx uow.TX) error {
		accountRepo, repoErr := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		saved, saveErr := accountRepo.UpdateBalance(c, repoargs.AccountBalanceUpdate{
			ID:              account.ID,
			Balance:         newBalance,
			ExpectedVersion: account.Version,
		})
		if saveErr != nil {
			return saveErr //nolint:wrapcheck
		}

		txRepo, repoErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		var createErr error
		created, createErr = txRepo.Create(c, repoargs.TransactionCreate{
			ID:        t.newID(),
			AccountID: saved.ID,
			Type:      txType,
			Amount:    amount,
			Timestamp: t.now().UTC(),
			Status:    domain.TransactionStatusOK,
		})
		return createErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("applying %s to account `%s`: %w", txType, account.Number, txErr)
	}
	return created, nil
}

// ByAccount возвращает транзакции счета от новых к старым. Пустой срез, если транзакций нет.
func (t *TransactionService) ByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	account, accErr := t.findAccount(ctx, accountNumber)
	if accErr != nil {
		return nil, accErr
	}

	transactions, err := t.txRepo.GetByAccountID(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("transactions by account: %w", err)
	}
	return transactions, nil
}

func (t *TransactionService) findAccount(ctx context.Context, number string) (*domain.Account, error) {
	account, err := t.accountRepo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("finding account: %w", err)
	}
	return account, nil
}
