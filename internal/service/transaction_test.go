package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Behyna/transaction-ledger/internal/cache"
	"github.com/Behyna/transaction-ledger/internal/constants"
	"github.com/Behyna/transaction-ledger/internal/metrics"
	"github.com/Behyna/transaction-ledger/internal/mocks"
	"github.com/Behyna/transaction-ledger/internal/model"
	"github.com/Behyna/transaction-ledger/internal/repository"
	"github.com/Behyna/transaction-ledger/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

type transactionServiceDeps struct {
	repo      *mocks.TransactionRepository
	txManager *mocks.TxManager
	cache     *mocks.SummaryCache
	svc       service.TransactionService
}

func newTransactionServiceDeps() transactionServiceDeps {
	deps := transactionServiceDeps{
		repo:      &mocks.TransactionRepository{},
		txManager: &mocks.TxManager{},
		cache:     &mocks.SummaryCache{},
	}
	deps.svc = service.NewTransactionService(deps.repo,
		service.NewTransactionFactory(&fixedClock{now: testNow}),
		deps.txManager, deps.cache, zap.NewNop(), metrics.NewMetrics(prometheus.NewRegistry()))

	return deps
}

func (d transactionServiceDeps) assertExpectations(t *testing.T) {
	d.repo.AssertExpectations(t)
	d.txManager.AssertExpectations(t)
	d.cache.AssertExpectations(t)
}

func storedTransaction(id int64, userID string, txType model.TransactionType, amount string) model.Transaction {
	return model.Transaction{
		ID:              id,
		UserID:          userID,
		TransactionType: txType,
		Amount:          decimal.RequireFromString(amount),
		CreatedAt:       testNow.Add(-time.Hour),
		UpdatedAt:       testNow.Add(-time.Hour),
	}
}

func TestTransactionService_ListTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("translates page number and size into offset and limit", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.repo.On("List", ctx, 20, 10).Return([]model.Transaction{
			storedTransaction(21, "u1", model.TransactionTypeDebit, "5"),
			storedTransaction(22, "u2", model.TransactionTypeCredit, "7.25"),
		}, nil)

		dtos, err := deps.svc.ListTransactions(ctx, service.ListTransactionsQuery{PageNumber: 3, PageSize: 10})

		require.NoError(t, err)
		require.Len(t, dtos, 2)
		assert.Equal(t, int64(21), dtos[0].TransactionID)
		assert.Equal(t, "u2", dtos[1].UserID)
		assert.Equal(t, model.TransactionTypeCredit, dtos[1].TransactionType)
		assert.True(t, decimal.RequireFromString("7.25").Equal(dtos[1].TransactionAmount))
		deps.assertExpectations(t)
	})

	t.Run("falls back to defaults for unset paging", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.repo.On("List", ctx, 0, service.DefaultPageSize).Return([]model.Transaction{}, nil)

		dtos, err := deps.svc.ListTransactions(ctx, service.ListTransactionsQuery{})

		require.NoError(t, err)
		assert.NotNil(t, dtos)
		assert.Empty(t, dtos)
		deps.assertExpectations(t)
	})

	t.Run("wraps store failures", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.repo.On("List", ctx, 0, 5).Return(nil, errors.New("connection refused"))

		dtos, err := deps.svc.ListTransactions(ctx, service.ListTransactionsQuery{PageNumber: 1, PageSize: 5})

		assert.Nil(t, dtos)
		var svcErr service.Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeDatabase, svcErr.Code)
	})
}

func TestTransactionService_ListHighVolumeTransactions(t *testing.T) {
	ctx := context.Background()
	threshold := decimal.RequireFromString("100")

	t.Run("passes threshold and page to the store", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.repo.On("ListAboveAmount", ctx, threshold, 2, 2).Return([]model.Transaction{
			storedTransaction(9, "u1", model.TransactionTypeCredit, "150"),
		}, nil)

		dtos, err := deps.svc.ListHighVolumeTransactions(ctx, service.HighVolumeTransactionsQuery{
			ThresholdAmount: threshold,
			PageNumber:      2,
			PageSize:        2,
		})

		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, int64(9), dtos[0].TransactionID)
		deps.assertExpectations(t)
	})

	t.Run("wraps store failures", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.repo.On("ListAboveAmount", ctx, threshold, 0, 100).Return(nil, errors.New("timeout"))

		_, err := deps.svc.ListHighVolumeTransactions(ctx, service.HighVolumeTransactionsQuery{
			ThresholdAmount: threshold,
		})

		var svcErr service.Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeDatabase, svcErr.Code)
	})
}

func TestTransactionService_GetTransactionByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns dto for existing transaction", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		stored := storedTransaction(4, "u4", model.TransactionTypeDebit, "3.10")
		deps.repo.On("GetByID", ctx, int64(4)).Return(&stored, nil)

		dto, err := deps.svc.GetTransactionByID(ctx, 4)

		require.NoError(t, err)
		require.NotNil(t, dto)
		assert.Equal(t, int64(4), dto.TransactionID)
		assert.Equal(t, stored.CreatedAt, dto.TransactionCreatedAt)
	})

	t.Run("returns nil without error when absent", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.repo.On("GetByID", ctx, int64(404)).Return(nil, repository.ErrTransactionNotFound)

		dto, err := deps.svc.GetTransactionByID(ctx, 404)

		assert.NoError(t, err)
		assert.Nil(t, dto)
	})

	t.Run("wraps store failures", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.repo.On("GetByID", ctx, int64(1)).Return(nil, errors.New("broken pipe"))

		dto, err := deps.svc.GetTransactionByID(ctx, 1)

		assert.Nil(t, dto)
		var svcErr service.Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeDatabase, svcErr.Code)
	})
}

func TestTransactionService_AddTransaction(t *testing.T) {
	ctx := context.Background()
	cmd := service.TransactionCommand{
		UserID:          "u1",
		TransactionType: model.TransactionTypeCredit,
		Amount:          decimal.RequireFromString("42.42"),
	}

	t.Run("creates transaction and invalidates summaries", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.repo.On("Create", ctx, mock.MatchedBy(func(tx *model.Transaction) bool {
			return tx.ID == 0 &&
				tx.UserID == "u1" &&
				tx.TransactionType == model.TransactionTypeCredit &&
				tx.Amount.Equal(cmd.Amount) &&
				tx.CreatedAt.Equal(testNow) &&
				tx.UpdatedAt.Equal(testNow)
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Transaction).ID = 55
		}).Return(nil)
		deps.cache.On("Delete", ctx, cache.SummaryKeys).Return(nil)

		id, err := deps.svc.AddTransaction(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, int64(55), id)
		deps.assertExpectations(t)
	})

	t.Run("cache failure does not fail the write", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.repo.On("Create", ctx, mock.AnythingOfType("*model.Transaction")).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Transaction).ID = 56
		}).Return(nil)
		deps.cache.On("Delete", ctx, cache.SummaryKeys).Return(errors.New("redis down"))

		id, err := deps.svc.AddTransaction(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, int64(56), id)
	})

	t.Run("store failure skips invalidation", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.repo.On("Create", ctx, mock.AnythingOfType("*model.Transaction")).Return(errors.New("disk full"))

		id, err := deps.svc.AddTransaction(ctx, cmd)

		assert.Zero(t, id)
		var svcErr service.Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeDatabase, svcErr.Code)
		deps.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestTransactionService_UpdateTransaction(t *testing.T) {
	ctx := context.Background()
	cmd := service.TransactionCommand{
		UserID:          "u9",
		TransactionType: model.TransactionTypeDebit,
		Amount:          decimal.RequireFromString("8.00"),
	}

	t.Run("updates mutable fields inside a transaction", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		stored := storedTransaction(3, "u1", model.TransactionTypeCredit, "1")
		createdAt := stored.CreatedAt

		deps.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		deps.repo.On("GetByID", mock.AnythingOfType("*context.valueCtx"), int64(3)).Return(&stored, nil)
		deps.repo.On("Update", mock.AnythingOfType("*context.valueCtx"),
			mock.MatchedBy(func(tx *model.Transaction) bool {
				return tx.ID == 3 &&
					tx.UserID == "u9" &&
					tx.TransactionType == model.TransactionTypeDebit &&
					tx.Amount.Equal(cmd.Amount) &&
					tx.CreatedAt.Equal(createdAt) &&
					tx.UpdatedAt.Equal(testNow)
			})).Return(nil)
		deps.cache.On("Delete", ctx, cache.SummaryKeys).Return(nil)

		ok, err := deps.svc.UpdateTransaction(ctx, 3, cmd)

		require.NoError(t, err)
		assert.True(t, ok)
		deps.assertExpectations(t)
	})

	t.Run("reports false for unknown id", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		deps.repo.On("GetByID", mock.AnythingOfType("*context.valueCtx"), int64(77)).
			Return(nil, repository.ErrTransactionNotFound)

		ok, err := deps.svc.UpdateTransaction(ctx, 77, cmd)

		require.NoError(t, err)
		assert.False(t, ok)
		deps.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		deps.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("propagates store failure", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		stored := storedTransaction(3, "u1", model.TransactionTypeCredit, "1")
		deps.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		deps.repo.On("GetByID", mock.AnythingOfType("*context.valueCtx"), int64(3)).Return(&stored, nil)
		deps.repo.On("Update", mock.AnythingOfType("*context.valueCtx"), mock.Anything).
			Return(errors.New("deadlock"))

		ok, err := deps.svc.UpdateTransaction(ctx, 3, cmd)

		assert.False(t, ok)
		var svcErr service.Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeDatabase, svcErr.Code)
	})

	t.Run("propagates failure to begin", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).
			Return(errors.New("cannot begin"))

		ok, err := deps.svc.UpdateTransaction(ctx, 3, cmd)

		assert.False(t, ok)
		assert.EqualError(t, err, "cannot begin")
		deps.repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestTransactionService_DeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes existing transaction", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		stored := storedTransaction(12, "u1", model.TransactionTypeDebit, "10")
		deps.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		deps.repo.On("GetByID", mock.AnythingOfType("*context.valueCtx"), int64(12)).Return(&stored, nil)
		deps.repo.On("Delete", mock.AnythingOfType("*context.valueCtx"), int64(12)).Return(nil)
		deps.cache.On("Delete", ctx, cache.SummaryKeys).Return(nil)

		ok, err := deps.svc.DeleteTransaction(ctx, 12)

		require.NoError(t, err)
		assert.True(t, ok)
		deps.assertExpectations(t)
	})

	t.Run("reports false for unknown id", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		deps.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		deps.repo.On("GetByID", mock.AnythingOfType("*context.valueCtx"), int64(13)).
			Return(nil, repository.ErrTransactionNotFound)

		ok, err := deps.svc.DeleteTransaction(ctx, 13)

		require.NoError(t, err)
		assert.False(t, ok)
		deps.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("reports false when row disappears before delete", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		stored := storedTransaction(14, "u1", model.TransactionTypeCredit, "7")
		deps.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		deps.repo.On("GetByID", mock.AnythingOfType("*context.valueCtx"), int64(14)).Return(&stored, nil)
		deps.repo.On("Delete", mock.AnythingOfType("*context.valueCtx"), int64(14)).
			Return(repository.ErrTransactionNotFound)

		ok, err := deps.svc.DeleteTransaction(ctx, 14)

		require.NoError(t, err)
		assert.False(t, ok)
		deps.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		deps.repo.AssertExpectations(t)
	})

	t.Run("wraps store failure", func(t *testing.T) {
		deps := newTransactionServiceDeps()
		stored := storedTransaction(12, "u1", model.TransactionTypeDebit, "10")
		deps.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		deps.repo.On("GetByID", mock.AnythingOfType("*context.valueCtx"), int64(12)).Return(&stored, nil)
		deps.repo.On("Delete", mock.AnythingOfType("*context.valueCtx"), int64(12)).
			Return(errors.New("lock wait timeout"))

		ok, err := deps.svc.DeleteTransaction(ctx, 12)

		assert.False(t, ok)
		var svcErr service.Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeDatabase, svcErr.Code)
	})
}
