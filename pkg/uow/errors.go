package uow

import (
	"errors"
	"fmt"
)

var (
	ErrRepositoryNotRegistered     = errors.New("[uow] repository not registered")
	ErrRepositoryAlreadyRegistered = errors.New("[uow] repository already registered")
	ErrInvalidRepositoryType       = errors.New("[uow] invalid repository type")
)

// repoErr добавляет к ошибке имя репозитория. errors.Is по исходной ошибке продолжает работать.
func repoErr(err error, name RepositoryName) error {
	return fmt.Errorf("%w: `%s`", err, name)
}
