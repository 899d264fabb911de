package api

import (
	"time"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"accountId"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
	Status    string          `json:"status"`
	Reason    string          `json:"reason,omitempty"`
}

func newTransactionResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        tx.ID,
		AccountID: tx.AccountID,
		Type:      string(tx.Type),
		Amount:    tx.Amount,
		Timestamp: tx.Timestamp,
		Status:    string(tx.Status),
		Reason:    tx.Reason,
	}
}

type CreditCardResponse struct {
	ID            string          `json:"id"`
	CardNumber    string          `json:"cardNumber"`
	AccountHolder string          `json:"accountHolder"`
	Balance       decimal.Decimal `json:"balance"`
	CreditLimit   decimal.Decimal `json:"creditLimit"`
}

func newCreditCardResponse(card domain.CreditCard) CreditCardResponse {
	return CreditCardResponse{
		ID:            card.ID,
		CardNumber:    card.CardNumber,
		AccountHolder: card.AccountHolder,
		Balance:       card.Balance,
		CreditLimit:   card.CreditLimit,
	}
}
