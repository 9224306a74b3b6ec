package service

import "github.com/Behyna/transaction-ledger/internal/model"

// TransactionFactory maps commands onto transaction records. Each call reads
// the clock exactly once.
type TransactionFactory interface {
	CreateTransaction(cmd TransactionCommand) model.Transaction
	UpdateTransaction(existing *model.Transaction, cmd TransactionCommand) *model.Transaction
}

type transactionFactory struct {
	clock Clock
}

func NewTransactionFactory(clock Clock) TransactionFactory {
	return &transactionFactory{clock: clock}
}

func (f *transactionFactory) CreateTransaction(cmd TransactionCommand) model.Transaction {
	now := f.clock.Now()

	return model.Transaction{
		UserID:          cmd.UserID,
		TransactionType: cmd.TransactionType,
		Amount:          cmd.Amount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// UpdateTransaction mutates existing in place; ID and CreatedAt are left untouched.
func (f *transactionFactory) UpdateTransaction(existing *model.Transaction, cmd TransactionCommand) *model.Transaction {
	existing.UserID = cmd.UserID
	existing.TransactionType = cmd.TransactionType
	existing.Amount = cmd.Amount
	existing.UpdatedAt = f.clock.Now()

	return existing
}
