package uow

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type stubRepo struct {
	db DBTX
}

type UOWTestSuite struct {
	suite.Suite
	unitOfWork *UnitOfWork
	built      int
}

func TestUOWSuite(t *testing.T) {
	suite.Run(t, new(UOWTestSuite))
}

func (s *UOWTestSuite) SetupTest() {
	s.built = 0
	s.unitOfWork = NewUnitOfWork(nil)
	err := s.unitOfWork.Register("stub", func(db DBTX) Repository {
		s.built++
		return &stubRepo{db: db}
	})
	s.Require().NoError(err)
}

func (s *UOWTestSuite) TestRegisterTwice() {
	err := s.unitOfWork.Register("stub", func(DBTX) Repository { return nil })
	s.ErrorIs(err, ErrRepositoryAlreadyRegistered)
}

func (s *UOWTestSuite) TestGetRepositoryAs() {
	repo, err := GetRepositoryAs[*stubRepo](s.unitOfWork, "stub")
	s.Require().NoError(err)
	s.NotNil(repo)

	_, err = GetRepositoryAs[*stubRepo](s.unitOfWork, "missing")
	s.ErrorIs(err, ErrRepositoryNotRegistered)
	s.ErrorContains(err, "missing")

	_, err = GetRepositoryAs[string](s.unitOfWork, "stub")
	s.ErrorIs(err, ErrInvalidRepositoryType)
}

func (s *UOWTestSuite) TestTransactionCachesRepositories() {
	tx := NewTransaction(nil, s.unitOfWork.repositories)

	first, err := GetAs[*stubRepo](tx, "stub")
	s.Require().NoError(err)
	second, err := GetAs[*stubRepo](tx, "stub")
	s.Require().NoError(err)

	s.Same(first, second)
	s.Equal(1, s.built)

	_, err = GetAs[*stubRepo](tx, "missing")
	s.ErrorIs(err, ErrRepositoryNotRegistered)
}
