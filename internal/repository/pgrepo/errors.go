package pgrepo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode = "23505"
)

// convertErr приводит ошибку драйвера к виду слоя репозитория: контекст операции, тип ошибки домена
// и исходное сообщение.
//   - pgx.ErrNoRows превращается в domain.ErrRecordNotFound.
//   - нарушение уникальности (uniqueViolationCode) превращается в domain.ErrDuplicateKey.
//   - все остальное - domain.ErrUnknown.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	errType := domain.ErrUnknown

	if errors.As(err, &pgErr) && isUniqueViolationErr(pgErr) {
		errType = domain.ErrDuplicateKey
	}

	return fmt.Errorf("[repository/%s] %w: %s", msg, errType, err.Error())
}

func isUniqueViolationErr(err *pgconn.PgError) bool {
	return err.Code == uniqueViolationCode
}
