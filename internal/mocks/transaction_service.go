package mocks

import (
	"context"

	"github.com/Behyna/transaction-ledger/internal/service"
	"github.com/stretchr/testify/mock"
)

type TransactionService struct {
	mock.Mock
}

func (m *TransactionService) ListTransactions(ctx context.Context,
	query service.ListTransactionsQuery) ([]service.TransactionDTO, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.TransactionDTO), args.Error(1)
}

func (m *TransactionService) ListHighVolumeTransactions(ctx context.Context,
	query service.HighVolumeTransactionsQuery) ([]service.TransactionDTO, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.TransactionDTO), args.Error(1)
}

func (m *TransactionService) GetTransactionByID(ctx context.Context, id int64) (*service.TransactionDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TransactionDTO), args.Error(1)
}

func (m *TransactionService) AddTransaction(ctx context.Context, cmd service.TransactionCommand) (int64, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TransactionService) UpdateTransaction(ctx context.Context, id int64,
	cmd service.TransactionCommand) (bool, error) {
	args := m.Called(ctx, id, cmd)
	return args.Bool(0), args.Error(1)
}

func (m *TransactionService) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
