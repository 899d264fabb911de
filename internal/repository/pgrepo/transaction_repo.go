package pgrepo

import (
	"context"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/repository/repoargs"
	"github.com/fsdevblog/transactions-service/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, account_id, type, amount, timestamp, status, COALESCE(reason, '')`

type TransactionRepository struct {
	db uow.DBTX
}

func NewTransactionRepository(db uow.DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create добавляет запись в журнал транзакций. Записи журнала не изменяются и не удаляются.
func (t *TransactionRepository) Create(
	ctx context.Context,
	args repoargs.TransactionCreate,
) (*domain.Transaction, error) {
	var reason *string
	if args.Reason != "" {
		reason = &args.Reason
	}
	row := t.db.QueryRow(ctx, `
		INSERT INTO transactions (id, account_id, type, amount, timestamp, status, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+transactionColumns,
		args.ID, args.AccountID, string(args.Type), args.Amount, args.Timestamp, string(args.Status), reason,
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "creating transaction for account `%s`", args.AccountID)
	}
	return transaction, nil
}

// GetByAccountID возвращает транзакции счета, отсортированные по времени по убыванию.
func (t *TransactionRepository) GetByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	rows, err := t.db.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1
		ORDER BY timestamp DESC, id DESC`,
		accountID,
	)
	if err != nil {
		return nil, convertErr(err, "getting transactions by accountID `%s`", accountID)
	}
	defer rows.Close()

	var transactions = make([]domain.Transaction, 0)
	for rows.Next() {
		transaction, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning transaction of account `%s`", accountID)
		}
		transactions = append(transactions, *transaction)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating transactions of account `%s`", accountID)
	}
	return transactions, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var txType, status string
	if err := row.Scan(
		&transaction.ID,
		&transaction.AccountID,
		&txType,
		&transaction.Amount,
		&transaction.Timestamp,
		&status,
		&transaction.Reason,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	transaction.Type = domain.TransactionType(txType)
	transaction.Status = domain.TransactionStatusType(status)
	return &transaction, nil
}
