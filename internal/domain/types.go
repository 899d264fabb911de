package domain

type TransactionType string

const (
	TransactionDebit  TransactionType = "DEBIT"
	TransactionCredit TransactionType = "CREDIT"
)

// IsKnown сообщает, поддерживается ли тип транзакции движком.
func (t TransactionType) IsKnown() bool {
	return t == TransactionDebit || t == TransactionCredit
}

type TransactionStatusType string

const (
	TransactionStatusOK TransactionStatusType = "OK"
	// TransactionStatusRejected описан в модели, но движок его не создает: отказ возвращается ошибкой.
	TransactionStatusRejected TransactionStatusType = "REJECTED"
)

type AccountStatusType string

const (
	AccountStatusActive   AccountStatusType = "ACTIVE"
	AccountStatusInactive AccountStatusType = "INACTIVE"
)
