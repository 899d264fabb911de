package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TransactionsHandler struct {
	svs TransactionServicer
}

func NewTransactionsHandler(svs TransactionServicer) *TransactionsHandler {
	return &TransactionsHandler{
		svs: svs,
	}
}

type CreateTransactionParams struct {
	AccountNumber string           `binding:"notblank"                  json:"accountNumber"`
	Type          string           `binding:"notblank,txtype"           json:"type"`
	Amount        *decimal.Decimal `binding:"required,decimal_gte=0.01" json:"amount"`
}

// Create POST RouteGroup + TransactionsRoute.
func (t *TransactionsHandler) Create(c *gin.Context) {
	var params CreateTransactionParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithError(c, bindErr, gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	tx, err := t.svs.Create(reqCtx, service.CreateTransactionArgs{
		AccountNumber: params.AccountNumber,
		Type:          params.Type,
		Amount:        *params.Amount,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTransactionResponse(*tx))
}

type TransactionsQuery struct {
	AccountNumber string `binding:"notblank" form:"accountNumber"`
}

// Index GET RouteGroup + TransactionsRoute?accountNumber=. Транзакции счета от новых к старым.
func (t *TransactionsHandler) Index(c *gin.Context) {
	var query TransactionsQuery
	if bindErr := c.ShouldBindQuery(&query); bindErr != nil {
		abortWithError(c, bindErr, gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := t.svs.ByAccount(reqCtx, query.AccountNumber)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	var response = make([]TransactionResponse, len(transactions))
	for i, tx := range transactions {
		response[i] = newTransactionResponse(tx)
	}

	c.JSON(http.StatusOK, response)
}

// abortWithServiceError бизнес-ошибки отдаются клиенту как есть, остальные считаются внутренними.
func abortWithServiceError(c *gin.Context, err error) {
	var businessErr *domain.BusinessError
	if errors.As(err, &businessErr) {
		abortWithError(c, err, gin.ErrorTypePublic)
		return
	}
	abortWithError(c, err, gin.ErrorTypePrivate)
}
