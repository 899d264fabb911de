// Package uow реализует паттерн unit of work поверх pgxpool: репозитории регистрируются фабриками
// и создаются либо поверх пула, либо поверх открытой транзакции.
package uow

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepositoryName string
type Repository any
type RepositoryFactory func(DBTX) Repository

type UnitOfWork struct {
	conn         *pgxpool.Pool
	txOptions    pgx.TxOptions
	repositories map[RepositoryName]RepositoryFactory
}

func NewUnitOfWork(conn *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{
		conn:         conn,
		txOptions:    pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
		repositories: make(map[RepositoryName]RepositoryFactory),
	}
}

// SetTxOptions задает параметры транзакций, открываемых в Do.
func (u *UnitOfWork) SetTxOptions(opts pgx.TxOptions) *UnitOfWork {
	u.txOptions = opts
	return u
}

// Register регистрирует фабрику репозитория. Повторная регистрация имени возвращает
// ErrRepositoryAlreadyRegistered.
func (u *UnitOfWork) Register(name RepositoryName, factory RepositoryFactory) error {
	if _, ok := u.repositories[name]; ok {
		return repoErr(ErrRepositoryAlreadyRegistered, name)
	}
	u.repositories[name] = factory
	return nil
}

// Do выполняет fn внутри транзакции. Транзакция фиксируется, только если fn вернула nil,
// иначе откатывается.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) (err error) {
	tx, txErr := u.conn.BeginTx(ctx, u.txOptions)
	if txErr != nil {
		return txErr //nolint:wrapcheck
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rollbackErr)
		}
	}()

	if fnErr := fn(ctx, NewTransaction(tx, u.repositories)); fnErr != nil {
		return fnErr
	}
	return tx.Commit(ctx) //nolint:wrapcheck
}

// GetRepository возвращает репозиторий, работающий поверх пула без транзакции.
func (u *UnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	if repoFactory, ok := u.repositories[name]; ok {
		return repoFactory(u.conn), nil
	}
	return nil, repoErr(ErrRepositoryNotRegistered, name)
}

// GetRepositoryAs возвращает репозиторий по имени name, приведенный к типу T. Возвращает ошибки
// ErrRepositoryNotRegistered и ErrInvalidRepositoryType.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	var res T
	repo, err := u.GetRepository(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	r, ok := repo.(T)
	if !ok {
		return res, repoErr(ErrInvalidRepositoryType, name)
	}
	return r, nil
}
