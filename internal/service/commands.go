package service

import (
	"github.com/Behyna/transaction-ledger/internal/model"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 100
)

type TransactionCommand struct {
	UserID          string
	TransactionType model.TransactionType
	Amount          decimal.Decimal
}

type ListTransactionsQuery struct {
	PageNumber int
	PageSize   int
}

type HighVolumeTransactionsQuery struct {
	ThresholdAmount decimal.Decimal
	PageNumber      int
	PageSize        int
}

// page returns the skip/take pair for a 1-based page, falling back to the
// defaults for unset values.
func page(pageNumber, pageSize int) (offset, limit int) {
	if pageNumber < 1 {
		pageNumber = DefaultPageNumber
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return (pageNumber - 1) * pageSize, pageSize
}
