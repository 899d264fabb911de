package service

import (
	"fmt"

	"github.com/fsdevblog/transactions-service/pkg/uow"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	RiskService        *RiskService
	TransactionService *TransactionService
	CreditCardService  *CreditCardService
}

func Factory(unitOfWork uow.UOW, publisher TransactionPublisher, l *logrus.Logger) (*AppServices, error) {
	riskService, riskServiceErr := NewRiskService(unitOfWork)
	if riskServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", riskServiceErr.Error())
	}

	transactionService, transactionServiceErr := NewTransactionService(unitOfWork, riskService, publisher, l)
	if transactionServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", transactionServiceErr.Error())
	}

	creditCardService, creditCardServiceErr := NewCreditCardService(unitOfWork)
	if creditCardServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", creditCardServiceErr.Error())
	}

	return &AppServices{
		RiskService:        riskService,
		TransactionService: transactionService,
		CreditCardService:  creditCardService,
	}, nil
}
