package uow

import (
	"github.com/jackc/pgx/v5"
)

// Transaction выдает репозитории, привязанные к одной открытой pgx транзакции.
type Transaction struct {
	repositories map[RepositoryName]RepositoryFactory
	tx           pgx.Tx
	cache        map[RepositoryName]Repository
}

func NewTransaction(tx pgx.Tx, repositories map[RepositoryName]RepositoryFactory) *Transaction {
	return &Transaction{
		repositories: repositories,
		tx:           tx,
		cache:        make(map[RepositoryName]Repository, len(repositories)),
	}
}

// Get возвращает репозиторий или ErrRepositoryNotRegistered. В пределах одной транзакции
// репозиторий создается один раз.
func (t *Transaction) Get(name RepositoryName) (Repository, error) {
	if repo, ok := t.cache[name]; ok {
		return repo, nil
	}
	factory, ok := t.repositories[name]
	if !ok {
		return nil, repoErr(ErrRepositoryNotRegistered, name)
	}
	repo := factory(t.tx)
	t.cache[name] = repo
	return repo, nil
}

// GetAs возвращает репозиторий с именем name, приведенный к типу T, либо ошибки
// ErrRepositoryNotRegistered и ErrInvalidRepositoryType.
func GetAs[T any](t TX, name RepositoryName) (T, error) {
	var res T
	repo, err := t.Get(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	res, ok := repo.(T)
	if !ok {
		return res, repoErr(ErrInvalidRepositoryType, name)
	}
	return res, nil
}
