package service_test

import (
	"testing"
	"time"

	"github.com/Behyna/transaction-ledger/internal/model"
	"github.com/Behyna/transaction-ledger/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func TestTransactionFactory(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := &fixedClock{now: created}
	factory := service.NewTransactionFactory(clock)

	cmd := service.TransactionCommand{
		UserID:          "user-1",
		TransactionType: model.TransactionTypeDebit,
		Amount:          decimal.RequireFromString("12.50"),
	}

	t.Run("create stamps both timestamps from one clock read", func(t *testing.T) {
		tx := factory.CreateTransaction(cmd)

		assert.Zero(t, tx.ID)
		assert.Equal(t, "user-1", tx.UserID)
		assert.Equal(t, model.TransactionTypeDebit, tx.TransactionType)
		assert.True(t, decimal.RequireFromString("12.5").Equal(tx.Amount))
		assert.Equal(t, created, tx.CreatedAt)
		assert.Equal(t, tx.CreatedAt, tx.UpdatedAt)
	})

	t.Run("update keeps id and creation time", func(t *testing.T) {
		existing := &model.Transaction{
			ID:              7,
			UserID:          "user-1",
			TransactionType: model.TransactionTypeDebit,
			Amount:          decimal.NewFromInt(1),
			CreatedAt:       created,
			UpdatedAt:       created,
		}

		later := created.Add(time.Hour)
		clock.now = later
		defer func() { clock.now = created }()

		updated := factory.UpdateTransaction(existing, service.TransactionCommand{
			UserID:          "user-2",
			TransactionType: model.TransactionTypeCredit,
			Amount:          decimal.RequireFromString("99.99"),
		})

		assert.Same(t, existing, updated)
		assert.Equal(t, int64(7), updated.ID)
		assert.Equal(t, created, updated.CreatedAt)
		assert.Equal(t, later, updated.UpdatedAt)
		assert.Equal(t, "user-2", updated.UserID)
		assert.Equal(t, model.TransactionTypeCredit, updated.TransactionType)
		assert.True(t, decimal.RequireFromString("99.99").Equal(updated.Amount))
	})
}
