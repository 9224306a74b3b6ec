package repository

import (
	"context"
	"errors"

	"github.com/Behyna/transaction-ledger/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	Update(ctx context.Context, tx *model.Transaction) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
	List(ctx context.Context, offset, limit int) ([]model.Transaction, error)
	ListAboveAmount(ctx context.Context, threshold decimal.Decimal, offset, limit int) ([]model.Transaction, error)
	SumByTransactionType(ctx context.Context) ([]model.TransactionTypeTotal, error)
	SumByUser(ctx context.Context) ([]model.UserTotal, error)
}

type transaction struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transaction{db: db}
}

func (t *transaction) Create(ctx context.Context, tx *model.Transaction) error {
	return GetTx(ctx, t.db).Create(tx).Error
}

// Update overwrites the mutable columns of the row with tx.ID. MySQL reports zero
// affected rows for a no-op write, so existence is checked by the caller.
func (t *transaction) Update(ctx context.Context, tx *model.Transaction) error {
	return GetTx(ctx, t.db).Model(&model.Transaction{}).
		Where("id = ?", tx.ID).
		Updates(map[string]any{
			"user_id":          tx.UserID,
			"transaction_type": tx.TransactionType,
			"amount":           tx.Amount,
			"updated_at":       tx.UpdatedAt,
		}).Error
}

func (t *transaction) Delete(ctx context.Context, id int64) error {
	result := GetTx(ctx, t.db).Where("id = ?", id).Delete(&model.Transaction{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

func (t *transaction) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	var tx model.Transaction

	err := GetTx(ctx, t.db).Where("id = ?", id).First(&tx).Error
	if err == nil {
		return &tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

func (t *transaction) List(ctx context.Context, offset, limit int) ([]model.Transaction, error) {
	var txs []model.Transaction

	err := GetTx(ctx, t.db).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (t *transaction) ListAboveAmount(ctx context.Context, threshold decimal.Decimal, offset, limit int) ([]model.Transaction, error) {
	var txs []model.Transaction

	err := GetTx(ctx, t.db).
		Where("amount > ?", threshold).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (t *transaction) SumByTransactionType(ctx context.Context) ([]model.TransactionTypeTotal, error) {
	var totals []model.TransactionTypeTotal

	err := GetTx(ctx, t.db).Model(&model.Transaction{}).
		Select("transaction_type, SUM(amount) AS total_amount").
		Group("transaction_type").
		Order("transaction_type ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	for i := range totals {
		totals[i].TotalAmount = totals[i].TotalAmount.Round(model.AmountScale)
	}

	return totals, nil
}

func (t *transaction) SumByUser(ctx context.Context) ([]model.UserTotal, error) {
	var totals []model.UserTotal

	err := GetTx(ctx, t.db).Model(&model.Transaction{}).
		Select("user_id, SUM(amount) AS total_amount").
		Group("user_id").
		Order("user_id ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	for i := range totals {
		totals[i].TotalAmount = totals[i].TotalAmount.Round(model.AmountScale)
	}

	return totals, nil
}
