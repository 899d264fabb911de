package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/transactions-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreditCardsHandler struct {
	svs CreditCardServicer
}

func NewCreditCardsHandler(svs CreditCardServicer) *CreditCardsHandler {
	return &CreditCardsHandler{
		svs: svs,
	}
}

type RegisterCardParams struct {
	CardNumber    string          `binding:"notblank,luhn"  json:"cardNumber"`
	AccountHolder string          `binding:"notblank"       json:"accountHolder"`
	Balance       decimal.Decimal `binding:"decimal_gte=0"  json:"balance"`
	CreditLimit   decimal.Decimal `binding:"decimal_gte=0"  json:"creditLimit"`
}

// Create POST RouteGroup + CreditCardsRoute.
func (h *CreditCardsHandler) Create(c *gin.Context) {
	var params RegisterCardParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithError(c, bindErr, gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	card, err := h.svs.Register(reqCtx, service.RegisterCardArgs{
		CardNumber:    params.CardNumber,
		AccountHolder: params.AccountHolder,
		Balance:       params.Balance,
		CreditLimit:   params.CreditLimit,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newCreditCardResponse(*card))
}

// Index GET RouteGroup + CreditCardsRoute.
func (h *CreditCardsHandler) Index(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	cards, err := h.svs.GetAll(reqCtx)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	var response = make([]CreditCardResponse, len(cards))
	for i, card := range cards {
		response[i] = newCreditCardResponse(card)
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + CreditCardRoute.
func (h *CreditCardsHandler) Show(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	card, err := h.svs.GetByID(reqCtx, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCreditCardResponse(*card))
}
