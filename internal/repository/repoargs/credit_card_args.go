package repoargs

import "github.com/shopspring/decimal"

type CreditCardCreate struct {
	ID            string
	CardNumber    string
	AccountHolder string
	Balance       decimal.Decimal
	CreditLimit   decimal.Decimal
}
