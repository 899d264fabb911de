package pgrepo

import (
	"context"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/repository/repoargs"
	"github.com/fsdevblog/transactions-service/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const riskRuleColumns = `id, created_at, currency, max_debit_per_tx`

type RiskRuleRepository struct {
	db uow.DBTX
}

func NewRiskRuleRepository(db uow.DBTX) *RiskRuleRepository {
	return &RiskRuleRepository{db: db}
}

// FindActiveByCurrency возвращает действующее правило для валюты. Если правил несколько, побеждает
// самое позднее по created_at (при равенстве - по id). Нет правил - domain.ErrRecordNotFound.
func (r *RiskRuleRepository) FindActiveByCurrency(ctx context.Context, currency string) (*domain.RiskRule, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+riskRuleColumns+`
		FROM risk_rules
		WHERE currency = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		currency,
	)
	rule, err := scanRiskRule(row)
	if err != nil {
		return nil, convertErr(err, "finding risk rule for currency `%s`", currency)
	}
	return rule, nil
}

func (r *RiskRuleRepository) Create(ctx context.Context, args repoargs.RiskRuleCreate) (*domain.RiskRule, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO risk_rules (id, currency, max_debit_per_tx)
		VALUES ($1, $2, $3)
		RETURNING `+riskRuleColumns,
		args.ID, args.Currency, args.MaxDebitPerTx,
	)
	rule, err := scanRiskRule(row)
	if err != nil {
		return nil, convertErr(err, "creating risk rule for currency `%s`", args.Currency)
	}
	return rule, nil
}

func scanRiskRule(row pgx.Row) (*domain.RiskRule, error) {
	var rule domain.RiskRule
	if err := row.Scan(&rule.ID, &rule.CreatedAt, &rule.Currency, &rule.MaxDebitPerTx); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &rule, nil
}
