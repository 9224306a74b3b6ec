package mocks

import (
	"context"

	"github.com/Behyna/transaction-ledger/internal/service"
	"github.com/stretchr/testify/mock"
)

type TransactionSummaryService struct {
	mock.Mock
}

func (m *TransactionSummaryService) SummaryByTransactionType(ctx context.Context) ([]service.TransactionTypeSummaryDTO, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.TransactionTypeSummaryDTO), args.Error(1)
}

func (m *TransactionSummaryService) SummaryByUser(ctx context.Context) ([]service.UserSummaryDTO, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.UserSummaryDTO), args.Error(1)
}
