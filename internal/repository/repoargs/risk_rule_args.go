package repoargs

import "github.com/shopspring/decimal"

type RiskRuleCreate struct {
	ID            string
	Currency      string
	MaxDebitPerTx decimal.NullDecimal
}
