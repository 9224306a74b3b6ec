package service

import (
	"time"

	"github.com/Behyna/transaction-ledger/internal/model"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type TransactionDTO struct {
	TransactionID        int64                 `json:"transactionId"`
	UserID               string                `json:"userId"`
	TransactionType      model.TransactionType `json:"transactionType"`
	TransactionAmount    decimal.Decimal       `json:"transactionAmount"`
	TransactionCreatedAt time.Time             `json:"transactionCreatedAt"`
}

type TransactionTypeSummaryDTO struct {
	TransactionType        model.TransactionType `json:"transactionType"`
	TotalTransactionAmount decimal.Decimal       `json:"totalTransactionAmount"`
}

type UserSummaryDTO struct {
	UserID                 string          `json:"userId"`
	TotalTransactionAmount decimal.Decimal `json:"totalTransactionAmount"`
}

func toTransactionDTO(tx model.Transaction) TransactionDTO {
	return TransactionDTO{
		TransactionID:        tx.ID,
		UserID:               tx.UserID,
		TransactionType:      tx.TransactionType,
		TransactionAmount:    tx.Amount,
		TransactionCreatedAt: tx.CreatedAt,
	}
}

func toTransactionDTOs(txs []model.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		dtos = append(dtos, toTransactionDTO(tx))
	}
	return dtos
}
