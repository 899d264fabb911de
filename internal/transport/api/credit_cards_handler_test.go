package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/logger"
	"github.com/fsdevblog/transactions-service/internal/service"
	"github.com/fsdevblog/transactions-service/internal/transport/api/mocks"
	"github.com/fsdevblog/transactions-service/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const validCardNumber = "4111111111111111"

type CreditCardsHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockCardSvs *mocks.MockCreditCardServicer
}

func TestCreditCardsHandlerSuite(t *testing.T) {
	suite.Run(t, new(CreditCardsHandlerTestSuite))
}

func (s *CreditCardsHandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockCardSvs = mocks.NewMockCreditCardServicer(s.mockCtrl)

	var err error
	s.router, err = New(RouterArgs{
		Logger:            logger.New(io.Discard),
		CreditCardService: s.mockCardSvs,
	})
	s.Require().NoError(err)
}

func (s *CreditCardsHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *CreditCardsHandlerTestSuite) postCard(payload any) *http.Response {
	resp, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + CreditCardsRoute,
	}, testutils.WithJSON(payload))
	s.Require().NoError(err)
	return resp
}

func (s *CreditCardsHandlerTestSuite) TestCreate() {
	holder := gofakeit.Name()

	s.mockCardSvs.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.RegisterCardArgs) (*domain.CreditCard, error) {
			s.Equal(validCardNumber, args.CardNumber)
			s.Equal(holder, args.AccountHolder)
			s.True(args.CreditLimit.Equal(decimal.NewFromInt(3000)))
			return &domain.CreditCard{
				ID:            "card-1",
				CardNumber:    args.CardNumber,
				AccountHolder: args.AccountHolder,
				Balance:       args.Balance,
				CreditLimit:   args.CreditLimit,
			}, nil
		})

	resp := s.postCard(map[string]any{
		"cardNumber":    validCardNumber,
		"accountHolder": holder,
		"balance":       0,
		"creditLimit":   3000,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	body := decodeBody[CreditCardResponse](&s.Suite, resp)
	s.Equal("card-1", body.ID)
	s.Equal(holder, body.AccountHolder)
}

func (s *CreditCardsHandlerTestSuite) TestCreate_Validation() {
	s.mockCardSvs.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)

	resp := s.postCard(map[string]any{
		"cardNumber":    "4111111111111112",
		"accountHolder": " ",
		"creditLimit":   -1,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[errorBody](&s.Suite, resp)
	s.Equal("validation_failed", body.Error)
	s.Contains(body.Errors, "cardNumber")
	s.Contains(body.Errors, "accountHolder")
	s.Contains(body.Errors, "creditLimit")
}

func (s *CreditCardsHandlerTestSuite) TestCreate_TinyNegativeBalance() {
	s.mockCardSvs.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)

	resp := s.postCard(map[string]any{
		"cardNumber":    "4111111111111111",
		"accountHolder": "Ana Peru",
		"balance":       json.Number("-0.00000000000000000001"),
		"creditLimit":   1000,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[errorBody](&s.Suite, resp)
	s.Equal("validation_failed", body.Error)
	s.Len(body.Errors, 1)
	s.Contains(body.Errors, "balance")
}

func (s *CreditCardsHandlerTestSuite) TestCreate_Duplicate() {
	s.mockCardSvs.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrCardAlreadyRegistered)

	resp := s.postCard(map[string]any{
		"cardNumber":    validCardNumber,
		"accountHolder": gofakeit.Name(),
	})
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("card_already_registered", decodeBody[errorBody](&s.Suite, resp).Error)
}

func (s *CreditCardsHandlerTestSuite) TestIndexAndShow() {
	cards := []domain.CreditCard{
		{ID: "card-1", CardNumber: validCardNumber, AccountHolder: gofakeit.Name()},
		{ID: "card-2", CardNumber: "79927398713", AccountHolder: gofakeit.Name()},
	}
	s.mockCardSvs.EXPECT().GetAll(gomock.Any()).Return(cards, nil)
	s.mockCardSvs.EXPECT().GetByID(gomock.Any(), "card-2").Return(&cards[1], nil)
	s.mockCardSvs.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrCardNotFound)

	s.Run("index", func() {
		resp, err := testutils.MakeRequest(testutils.RequestArgs{
			Router: s.router,
			Method: http.MethodGet,
			URL:    RouteGroup + CreditCardsRoute,
		})
		s.Require().NoError(err)
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		s.Len(decodeBody[[]CreditCardResponse](&s.Suite, resp), 2)
	})

	s.Run("show", func() {
		resp, err := testutils.MakeRequest(testutils.RequestArgs{
			Router: s.router,
			Method: http.MethodGet,
			URL:    RouteGroup + "/credit-cards/card-2",
		})
		s.Require().NoError(err)
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		s.Equal("79927398713", decodeBody[CreditCardResponse](&s.Suite, resp).CardNumber)
	})

	s.Run("show missing", func() {
		resp, err := testutils.MakeRequest(testutils.RequestArgs{
			Router: s.router,
			Method: http.MethodGet,
			URL:    RouteGroup + "/credit-cards/missing",
		})
		s.Require().NoError(err)
		s.Equal(http.StatusNotFound, resp.StatusCode)
		s.Equal("card_not_found", decodeBody[errorBody](&s.Suite, resp).Error)
	})
}

func TestIsValidLuhn(t *testing.T) {
	cases := map[string]bool{
		"79927398713":         true,
		validCardNumber:       true,
		"79927398710":         false,
		"4111-1111-1111-1111": false,
		"":                    false,
	}
	for code, want := range cases {
		assert.Equal(t, want, isValidLuhn(code), code)
	}
}
