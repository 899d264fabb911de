package domain

import (
	"errors"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnknown        = errors.New("unknown error")
	// ErrStaleRecord запись была изменена параллельно между чтением и записью.
	ErrStaleRecord = errors.New("stale record")
)

// BusinessError ожидаемая ошибка бизнес-логики с машиночитаемым кодом. Сравнивается по указателю,
// поэтому используйте errors.Is с переменными ниже.
type BusinessError struct {
	Code string
}

func NewBusinessError(code string) *BusinessError {
	return &BusinessError{Code: code}
}

func (e *BusinessError) Error() string {
	return e.Code
}

var (
	ErrAccountNotFound   = NewBusinessError("account_not_found")
	ErrRiskRejected      = NewBusinessError("risk_rejected")
	ErrInsufficientFunds = NewBusinessError("insufficient_funds")
	ErrUnsupportedType   = NewBusinessError("unsupported_type")

	ErrCardNotFound          = NewBusinessError("card_not_found")
	ErrCardAlreadyRegistered = NewBusinessError("card_already_registered")
)
