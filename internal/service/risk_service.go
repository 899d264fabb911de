package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/repository/repoargs"
	"github.com/fsdevblog/transactions-service/pkg/uow"
	"github.com/shopspring/decimal"
)

// RiskService проверяет сумму списания по лимиту валюты.
type RiskService struct {
	ruleRepo RiskRuleRepository
}

func NewRiskService(u uow.UOW) (*RiskService, error) {
	ruleRepo, err := uow.GetRepositoryAs[RiskRuleRepository](u, uow.RepositoryName(repoargs.RiskRuleRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &RiskService{ruleRepo: ruleRepo}, nil
}

// IsAllowed решает, допустима ли операция txType на сумму amount в валюте currency.
//   - Для DEBIT (без учета регистра) разрешено, если amount <= лимита. Равенство допустимо.
//   - Нет правила для валюты или лимит не задан - лимит равен нулю.
//   - Любой другой тип разрешен всегда, правило при этом не запрашивается.
func (r *RiskService) IsAllowed(
	ctx context.Context,
	currency string,
	txType string,
	amount decimal.Decimal,
) (bool, error) {
	if !strings.EqualFold(txType, string(domain.TransactionDebit)) {
		return true, nil
	}

	limit, err := r.debitLimit(ctx, currency)
	if err != nil {
		return false, err
	}
	return amount.LessThanOrEqual(limit), nil
}

func (r *RiskService) debitLimit(ctx context.Context, currency string) (decimal.Decimal, error) {
	rule, err := r.ruleRepo.FindActiveByCurrency(ctx, currency)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("risk rule lookup: %w", err)
	}
	return rule.Limit(), nil
}
