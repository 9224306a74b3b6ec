package v1

import (
	"github.com/Behyna/transaction-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// TransactionRequest is the body of both create and update.
type TransactionRequest struct {
	UserID            string                `json:"userId" validate:"required,notblank,max=255"`
	TransactionType   model.TransactionType `json:"transactionType" validate:"required,oneof=Debit Credit"`
	TransactionAmount *decimal.Decimal      `json:"transactionAmount" validate:"required"`
}
