package pgrepo_test

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fsdevblog/transactions-service/internal/broadcast"
	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/repository/pgrepo"
	"github.com/fsdevblog/transactions-service/internal/repository/repoargs"
	"github.com/fsdevblog/transactions-service/internal/service"
	"github.com/fsdevblog/transactions-service/pkg/uow"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	_ "github.com/golang-migrate/migrate/v4/source/file"       //nolint:revive
)

const migrationsDir = "../../db/migrations"

// PostgresTestSuite работает с настоящей базой. Без TEST_DATABASE_URI тесты пропускаются.
type PostgresTestSuite struct {
	suite.Suite
	pool        *pgxpool.Pool
	unitOfWork  *uow.UnitOfWork
	accounts    *pgrepo.AccountRepository
	riskRules   *pgrepo.RiskRuleRepository
	txs         *pgrepo.TransactionRepository
	creditCards *pgrepo.CreditCardRepository
	l           *logrus.Logger
}

func TestPostgresSuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URI") == "" {
		t.Skip("TEST_DATABASE_URI is required")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) SetupSuite() {
	s.l = logrus.New()
	s.l.SetOutput(io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgrepo.Connect(ctx, migrationsDir, os.Getenv("TEST_DATABASE_URI"), s.l)
	s.Require().NoError(err)
	s.pool = pool

	s.accounts = pgrepo.NewAccountRepository(pool)
	s.riskRules = pgrepo.NewRiskRuleRepository(pool)
	s.txs = pgrepo.NewTransactionRepository(pool)
	s.creditCards = pgrepo.NewCreditCardRepository(pool)

	s.unitOfWork = uow.NewUnitOfWork(pool)
	s.Require().NoError(s.unitOfWork.Register(uow.RepositoryName(repoargs.AccountRepoName),
		func(db uow.DBTX) uow.Repository { return pgrepo.NewAccountRepository(db) }))
	s.Require().NoError(s.unitOfWork.Register(uow.RepositoryName(repoargs.RiskRuleRepoName),
		func(db uow.DBTX) uow.Repository { return pgrepo.NewRiskRuleRepository(db) }))
	s.Require().NoError(s.unitOfWork.Register(uow.RepositoryName(repoargs.TransactionRepoName),
		func(db uow.DBTX) uow.Repository { return pgrepo.NewTransactionRepository(db) }))
	s.Require().NoError(s.unitOfWork.Register(uow.RepositoryName(repoargs.CreditCardRepoName),
		func(db uow.DBTX) uow.Repository { return pgrepo.NewCreditCardRepository(db) }))
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.T().Context(), `TRUNCATE accounts, risk_rules, transactions, credit_cards`)
	s.Require().NoError(err)
}

func (s *PostgresTestSuite) createAccount(number string, balance int64) *domain.Account {
	acc, err := s.accounts.Create(s.T().Context(), repoargs.AccountCreate{
		ID:         uuid.NewString(),
		Number:     number,
		HolderName: gofakeit.Name(),
		Status:     domain.AccountStatusActive,
		Type:       "SAVINGS",
		Currency:   "PEN",
		Balance:    decimal.NewFromInt(balance),
	})
	s.Require().NoError(err)
	return acc
}

func (s *PostgresTestSuite) createRule(currency string, limit decimal.NullDecimal) {
	_, err := s.riskRules.Create(s.T().Context(), repoargs.RiskRuleCreate{
		ID:            uuid.NewString(),
		Currency:      currency,
		MaxDebitPerTx: limit,
	})
	s.Require().NoError(err)
}

func (s *PostgresTestSuite) TestAccounts() {
	ctx := s.T().Context()
	created := s.createAccount("001-0001", 2000)

	found, err := s.accounts.FindByNumber(ctx, "001-0001")
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.True(found.Balance.Equal(decimal.NewFromInt(2000)))

	_, err = s.accounts.FindByNumber(ctx, "missing")
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)

	_, err = s.accounts.Create(ctx, repoargs.AccountCreate{ID: uuid.NewString(), Number: "001-0001", Currency: "PEN"})
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)

	updated, err := s.accounts.UpdateBalance(ctx, repoargs.AccountBalanceUpdate{
		ID:              found.ID,
		Balance:         decimal.RequireFromString("1999.99"),
		ExpectedVersion: found.Version,
	})
	s.Require().NoError(err)
	s.Equal(found.Version+1, updated.Version)
	s.Equal("1999.99", updated.Balance.String())

	// версия уже устарела
	_, err = s.accounts.UpdateBalance(ctx, repoargs.AccountBalanceUpdate{
		ID:              found.ID,
		Balance:         decimal.NewFromInt(1),
		ExpectedVersion: found.Version,
	})
	s.Require().ErrorIs(err, domain.ErrStaleRecord)
}

func (s *PostgresTestSuite) TestRiskRules() {
	ctx := s.T().Context()

	_, err := s.riskRules.FindActiveByCurrency(ctx, "PEN")
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)

	s.createRule("PEN", decimal.NewNullDecimal(decimal.NewFromInt(1500)))
	s.createRule("PEN", decimal.NewNullDecimal(decimal.NewFromInt(700)))
	s.createRule("USD", decimal.NullDecimal{})

	rule, err := s.riskRules.FindActiveByCurrency(ctx, "PEN")
	s.Require().NoError(err)
	s.True(rule.Limit().Equal(decimal.NewFromInt(700)), "latest rule wins")

	rule, err = s.riskRules.FindActiveByCurrency(ctx, "USD")
	s.Require().NoError(err)
	s.False(rule.MaxDebitPerTx.Valid)
	s.True(rule.Limit().IsZero())
}

func (s *PostgresTestSuite) TestTransactions() {
	ctx := s.T().Context()
	acc := s.createAccount("001-0001", 0)

	empty, err := s.txs.GetByAccountID(ctx, acc.ID)
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, amount := range []string{"10.10", "20.20", "30.30"} {
		_, err = s.txs.Create(ctx, repoargs.TransactionCreate{
			ID:        uuid.NewString(),
			AccountID: acc.ID,
			Type:      domain.TransactionCredit,
			Amount:    decimal.RequireFromString(amount),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Status:    domain.TransactionStatusOK,
		})
		s.Require().NoError(err)
	}

	list, err := s.txs.GetByAccountID(ctx, acc.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("30.3", list[0].Amount.String())
	s.Equal("10.1", list[2].Amount.String())
	s.Empty(list[0].Reason)

	_, err = s.txs.Create(ctx, repoargs.TransactionCreate{
		ID:        uuid.NewString(),
		AccountID: acc.ID,
		Type:      domain.TransactionCredit,
		Amount:    decimal.Zero,
		Timestamp: base,
		Status:    domain.TransactionStatusOK,
	})
	s.Require().Error(err, "amount must be positive")
}

func (s *PostgresTestSuite) TestCreditCards() {
	ctx := s.T().Context()
	args := repoargs.CreditCardCreate{
		ID:            uuid.NewString(),
		CardNumber:    "4111111111111111",
		AccountHolder: gofakeit.Name(),
		Balance:       decimal.Zero,
		CreditLimit:   decimal.NewFromInt(5000),
	}
	card, err := s.creditCards.Create(ctx, args)
	s.Require().NoError(err)

	found, err := s.creditCards.FindByID(ctx, card.ID)
	s.Require().NoError(err)
	s.Equal(args.AccountHolder, found.AccountHolder)

	args.ID = uuid.NewString()
	_, err = s.creditCards.Create(ctx, args)
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)

	all, err := s.creditCards.GetAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *PostgresTestSuite) TestUnitOfWorkRollback() {
	acc := s.createAccount("001-0001", 100)
	errBoom := errors.New("boom")

	err := s.unitOfWork.Do(s.T().Context(), func(ctx context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[*pgrepo.AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		s.Require().NoError(repoErr)
		_, updErr := repo.UpdateBalance(ctx, repoargs.AccountBalanceUpdate{
			ID:              acc.ID,
			Balance:         decimal.NewFromInt(0),
			ExpectedVersion: acc.Version,
		})
		s.Require().NoError(updErr)
		return errBoom
	})
	s.Require().ErrorIs(err, errBoom)

	found, err := s.accounts.FindByID(s.T().Context(), acc.ID)
	s.Require().NoError(err)
	s.True(found.Balance.Equal(decimal.NewFromInt(100)))
}

func (s *PostgresTestSuite) newEngine() (*service.TransactionService, *broadcast.Hub[domain.Transaction]) {
	hub := broadcast.NewHub[domain.Transaction](16)
	s.T().Cleanup(hub.Close)

	services, err := service.Factory(s.unitOfWork, hub, s.l)
	s.Require().NoError(err)
	return services.TransactionService, hub
}

func (s *PostgresTestSuite) TestEngineEndToEnd() {
	ctx := s.T().Context()
	s.createAccount("001-0001", 2000)
	s.createRule("PEN", decimal.NewNullDecimal(decimal.NewFromInt(1500)))

	engine, hub := s.newEngine()
	sub, err := hub.Subscribe()
	s.Require().NoError(err)

	debit := func(amount int64) error {
		_, createErr := engine.Create(ctx, service.CreateTransactionArgs{
			AccountNumber: "001-0001",
			Type:          "DEBIT",
			Amount:        decimal.NewFromInt(amount),
		})
		return createErr
	}

	s.Require().ErrorIs(debit(1600), domain.ErrRiskRejected)
	s.Require().NoError(debit(1500))
	s.Require().ErrorIs(debit(1500), domain.ErrInsufficientFunds)

	acc, err := s.accounts.FindByNumber(ctx, "001-0001")
	s.Require().NoError(err)
	s.True(acc.Balance.Equal(decimal.NewFromInt(500)), acc.Balance.String())

	list, err := engine.ByAccount(ctx, "001-0001")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(domain.TransactionStatusOK, list[0].Status)

	select {
	case tx := <-sub.C():
		s.Equal(list[0].ID, tx.ID)
	default:
		s.Fail("transaction was not broadcast")
	}
}

func (s *PostgresTestSuite) TestEngineConcurrentDebits() {
	s.createAccount("001-0001", 1000)
	s.createRule("PEN", decimal.NewNullDecimal(decimal.NewFromInt(1500)))
	engine, _ := s.newEngine()

	const workers = 10
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Create(context.Background(), service.CreateTransactionArgs{
				AccountNumber: "001-0001",
				Type:          "DEBIT",
				Amount:        decimal.NewFromInt(250),
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(4, ok)
	acc, err := s.accounts.FindByNumber(s.T().Context(), "001-0001")
	s.Require().NoError(err)
	s.True(acc.Balance.IsZero(), acc.Balance.String())
}
