// Package seed заполняет пустую базу демонстрационными правилами риска и счетами.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/repository/repoargs"
	"github.com/fsdevblog/transactions-service/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type RiskRuleRepository interface {
	FindActiveByCurrency(ctx context.Context, currency string) (*domain.RiskRule, error)
	Create(ctx context.Context, args repoargs.RiskRuleCreate) (*domain.RiskRule, error)
}

type AccountRepository interface {
	FindByNumber(ctx context.Context, number string) (*domain.Account, error)
	Create(ctx context.Context, args repoargs.AccountCreate) (*domain.Account, error)
}

type RiskRule struct {
	Currency      string
	MaxDebitPerTx decimal.Decimal
}

type Account struct {
	Number     string
	HolderName string
	Type       string
	Currency   string
	Balance    decimal.Decimal
}

var (
	DefaultRiskRules = []RiskRule{
		{Currency: "PEN", MaxDebitPerTx: decimal.NewFromInt(1500)},
		{Currency: "USD", MaxDebitPerTx: decimal.NewFromInt(500)},
	}
	DefaultAccounts = []Account{
		{Number: "001-0001", HolderName: "Ana Peru", Type: "SAVINGS", Currency: "PEN", Balance: decimal.NewFromInt(2000)},
		{Number: "001-0002", HolderName: "Luis Acuña", Type: "SAVINGS", Currency: "PEN", Balance: decimal.NewFromInt(800)},
	}
)

type Seeder struct {
	uow       uow.UOW
	riskRules []RiskRule
	accounts  []Account
	newID     func() string
	l         *logrus.Entry
}

func New(u uow.UOW, l *logrus.Logger) *Seeder {
	return &Seeder{
		uow:       u,
		riskRules: DefaultRiskRules,
		accounts:  DefaultAccounts,
		newID:     uuid.NewString,
		l: l.WithFields(logrus.Fields{
			"component": "seed",
		}),
	}
}

// Run создает недостающие правила и счета в одной транзакции. Существующие записи не трогает,
// поэтому повторный запуск ничего не меняет.
func (s *Seeder) Run(ctx context.Context) error {
	err := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		ruleRepo, err := uow.GetAs[RiskRuleRepository](tx, uow.RepositoryName(repoargs.RiskRuleRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		accountRepo, err := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err = s.seedRiskRules(c, ruleRepo); err != nil {
			return err
		}
		return s.seedAccounts(c, accountRepo)
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

func (s *Seeder) seedRiskRules(ctx context.Context, repo RiskRuleRepository) error {
	for _, rule := range s.riskRules {
		_, err := repo.FindActiveByCurrency(ctx, rule.Currency)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return fmt.Errorf("risk rule `%s`: %w", rule.Currency, err)
		}

		if _, err = repo.Create(ctx, repoargs.RiskRuleCreate{
			ID:            s.newID(),
			Currency:      rule.Currency,
			MaxDebitPerTx: decimal.NewNullDecimal(rule.MaxDebitPerTx),
		}); err != nil {
			return fmt.Errorf("create risk rule `%s`: %w", rule.Currency, err)
		}
		s.l.WithFields(logrus.Fields{"currency": rule.Currency, "limit": rule.MaxDebitPerTx}).Info("risk rule seeded")
	}
	return nil
}

func (s *Seeder) seedAccounts(ctx context.Context, repo AccountRepository) error {
	for _, acc := range s.accounts {
		_, err := repo.FindByNumber(ctx, acc.Number)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return fmt.Errorf("account `%s`: %w", acc.Number, err)
		}

		if _, err = repo.Create(ctx, repoargs.AccountCreate{
			ID:         s.newID(),
			Number:     acc.Number,
			HolderName: acc.HolderName,
			Status:     domain.AccountStatusActive,
			Type:       acc.Type,
			Currency:   acc.Currency,
			Balance:    acc.Balance,
		}); err != nil {
			return fmt.Errorf("create account `%s`: %w", acc.Number, err)
		}
		s.l.WithField("number", acc.Number).Info("account seeded")
	}
	return nil
}
