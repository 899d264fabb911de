package api

import (
	"fmt"
	"time"

	"github.com/fsdevblog/transactions-service/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup         = "/api"
	TransactionsRoute  = "/transactions"
	StreamRoute        = "/stream/transactions"
	CreditCardsRoute   = "/credit-cards"
	CreditCardRoute    = "/credit-cards/:id"
	StreamEventName    = "transaction"
	// StreamContentType совпадает со значением, которое выставляет c.SSEvent.
	StreamContentType  = "text/event-stream;charset=utf-8"
	AccountNumberQuery = "accountNumber"
)

type RouterArgs struct {
	Logger             *logrus.Logger
	TransactionService TransactionServicer
	CreditCardService  CreditCardServicer
	Stream             StreamSource
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	r := gin.New()
	r.ContextWithFallback = true
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	transactionsHandler := NewTransactionsHandler(args.TransactionService)
	streamHandler := NewStreamHandler(args.Stream)
	creditCardsHandler := NewCreditCardsHandler(args.CreditCardService)

	api := r.Group(RouteGroup)

	api.POST(TransactionsRoute, transactionsHandler.Create)
	api.GET(TransactionsRoute, transactionsHandler.Index)
	api.GET(StreamRoute, streamHandler.Stream)

	api.POST(CreditCardsRoute, creditCardsHandler.Create)
	api.GET(CreditCardsRoute, creditCardsHandler.Index)
	api.GET(CreditCardRoute, creditCardsHandler.Show)
	return r, nil
}
