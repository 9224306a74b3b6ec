package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "Debit"
	TransactionTypeCredit TransactionType = "Credit"
)

func (t TransactionType) IsValid() bool {
	return t == TransactionTypeDebit || t == TransactionTypeCredit
}

func (t TransactionType) Value() (driver.Value, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid transaction type %q", string(t))
	}
	return string(t), nil
}

func (t *TransactionType) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*t = TransactionType(v)
	case []byte:
		*t = TransactionType(v)
	default:
		return fmt.Errorf("cannot scan %T into TransactionType", src)
	}
	return nil
}

// AmountScale is the number of fractional digits stored for an amount.
const AmountScale int32 = 2

type Transaction struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement;<-:create"`
	UserID          string          `gorm:"column:user_id;type:varchar(255);not null;index"`
	TransactionType TransactionType `gorm:"column:transaction_type;type:varchar(10);not null"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;not null;autoCreateTime:false;<-:create"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionTypeTotal is one row of the sum(amount) grouped by transaction_type.
type TransactionTypeTotal struct {
	TransactionType TransactionType `gorm:"column:transaction_type"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount"`
}

// UserTotal is one row of the sum(amount) grouped by user_id.
type UserTotal struct {
	UserID      string          `gorm:"column:user_id"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount"`
}
