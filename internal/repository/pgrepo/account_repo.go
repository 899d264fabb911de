package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/repository/repoargs"
	"github.com/fsdevblog/transactions-service/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, created_at, updated_at, number, holder_name, status, type, currency, balance, version`

type AccountRepository struct {
	db uow.DBTX
}

func NewAccountRepository(db uow.DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByNumber ищет счет по внешнему номеру. Возвращает domain.ErrRecordNotFound если счета нет.
func (a *AccountRepository) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row := a.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE number = $1`, number)
	account, err := scanAccount(row)
	if err != nil {
		return nil, convertErr(err, "finding account by number `%s`", number)
	}
	return account, nil
}

func (a *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	row := a.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	account, err := scanAccount(row)
	if err != nil {
		return nil, convertErr(err, "finding account by id `%s`", id)
	}
	return account, nil
}

// Create создает счет. Конфликт номера - domain.ErrDuplicateKey.
func (a *AccountRepository) Create(ctx context.Context, args repoargs.AccountCreate) (*domain.Account, error) {
	row := a.db.QueryRow(ctx, `
		INSERT INTO accounts (id, number, holder_name, status, type, currency, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+accountColumns,
		args.ID, args.Number, args.HolderName, string(args.Status), args.Type, args.Currency, args.Balance,
	)
	account, err := scanAccount(row)
	if err != nil {
		return nil, convertErr(err, "creating account `%s`", args.Number)
	}
	return account, nil
}

// UpdateBalance записывает новый баланс, только если версия записи не изменилась с момента чтения.
// Если запись изменили параллельно, возвращается domain.ErrStaleRecord.
func (a *AccountRepository) UpdateBalance(
	ctx context.Context,
	args repoargs.AccountBalanceUpdate,
) (*domain.Account, error) {
	row := a.db.QueryRow(ctx, `
		UPDATE accounts
		SET balance = $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3
		RETURNING `+accountColumns,
		args.ID, args.Balance, args.ExpectedVersion,
	)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf(
				"[repository/updating balance of account `%s` at version %d] %w",
				args.ID, args.ExpectedVersion, domain.ErrStaleRecord,
			)
		}
		return nil, convertErr(err, "updating balance of account `%s`", args.ID)
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var status string
	if err := row.Scan(
		&account.ID,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.Number,
		&account.HolderName,
		&status,
		&account.Type,
		&account.Currency,
		&account.Balance,
		&account.Version,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	account.Status = domain.AccountStatusType(status)
	return &account, nil
}
