package service

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/transaction-ledger/internal/cache"
	"github.com/Behyna/transaction-ledger/internal/constants"
	"github.com/Behyna/transaction-ledger/internal/metrics"
	"github.com/Behyna/transaction-ledger/internal/model"
	"github.com/Behyna/transaction-ledger/internal/repository"
	"go.uber.org/zap"
)

const transactionsTable = "transactions"

type TransactionService interface {
	ListTransactions(ctx context.Context, query ListTransactionsQuery) ([]TransactionDTO, error)
	ListHighVolumeTransactions(ctx context.Context, query HighVolumeTransactionsQuery) ([]TransactionDTO, error)
	GetTransactionByID(ctx context.Context, id int64) (*TransactionDTO, error)
	AddTransaction(ctx context.Context, cmd TransactionCommand) (int64, error)
	UpdateTransaction(ctx context.Context, id int64, cmd TransactionCommand) (bool, error)
	DeleteTransaction(ctx context.Context, id int64) (bool, error)
}

type transactionService struct {
	repo         repository.TransactionRepository
	factory      TransactionFactory
	txManager    repository.TxManager
	summaryCache cache.SummaryCache
	log          *zap.Logger
	metrics      *metrics.Metrics
}

func NewTransactionService(repo repository.TransactionRepository, factory TransactionFactory,
	txManager repository.TxManager, summaryCache cache.SummaryCache, log *zap.Logger,
	metrics *metrics.Metrics) TransactionService {
	return &transactionService{
		repo:         repo,
		factory:      factory,
		txManager:    txManager,
		summaryCache: summaryCache,
		log:          log,
		metrics:      metrics,
	}
}

func (s *transactionService) ListTransactions(ctx context.Context, query ListTransactionsQuery) ([]TransactionDTO, error) {
	offset, limit := page(query.PageNumber, query.PageSize)

	start := time.Now()
	txs, err := s.repo.List(ctx, offset, limit)
	s.recordQuery("select", start, err)
	if err != nil {
		s.log.Error("Failed to list transactions",
			zap.Int("page_number", query.PageNumber),
			zap.Int("page_size", query.PageSize),
			zap.Error(err))
		s.metrics.RecordTransactionQuery("list", "error")
		return nil, NewServiceError(constants.ErrCodeDatabase, err)
	}

	s.metrics.RecordTransactionQuery("list", outcome(len(txs)))

	return toTransactionDTOs(txs), nil
}

func (s *transactionService) ListHighVolumeTransactions(ctx context.Context,
	query HighVolumeTransactionsQuery) ([]TransactionDTO, error) {
	offset, limit := page(query.PageNumber, query.PageSize)

	start := time.Now()
	txs, err := s.repo.ListAboveAmount(ctx, query.ThresholdAmount, offset, limit)
	s.recordQuery("select", start, err)
	if err != nil {
		s.log.Error("Failed to list high volume transactions",
			zap.String("threshold", query.ThresholdAmount.String()),
			zap.Error(err))
		s.metrics.RecordTransactionQuery("high_volume", "error")
		return nil, NewServiceError(constants.ErrCodeDatabase, err)
	}

	s.metrics.RecordTransactionQuery("high_volume", outcome(len(txs)))

	return toTransactionDTOs(txs), nil
}

// GetTransactionByID returns nil without error when no transaction has the id.
func (s *transactionService) GetTransactionByID(ctx context.Context, id int64) (*TransactionDTO, error) {
	start := time.Now()
	tx, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTransactionNotFound) {
		s.recordQuery("select", start, nil)
		s.metrics.RecordTransactionQuery("get", "empty")
		return nil, nil
	}

	s.recordQuery("select", start, err)
	if err != nil {
		s.log.Error("Failed to get transaction", zap.Int64("transaction_id", id), zap.Error(err))
		s.metrics.RecordTransactionQuery("get", "error")
		return nil, NewServiceError(constants.ErrCodeDatabase, err)
	}

	s.metrics.RecordTransactionQuery("get", "found")

	dto := toTransactionDTO(*tx)
	return &dto, nil
}

func (s *transactionService) AddTransaction(ctx context.Context, cmd TransactionCommand) (int64, error) {
	tx := s.factory.CreateTransaction(cmd)

	start := time.Now()
	err := s.repo.Create(ctx, &tx)
	s.recordQuery("insert", start, err)
	if err != nil {
		s.log.Error("Failed to create transaction",
			zap.String("user_id", cmd.UserID),
			zap.String("transaction_type", string(cmd.TransactionType)),
			zap.Error(err))
		return 0, NewServiceError(constants.ErrCodeDatabase, err)
	}

	s.metrics.RecordTransactionWrite("create", string(tx.TransactionType))
	s.invalidateSummaries(ctx)

	s.log.Info("Transaction created",
		zap.Int64("transaction_id", tx.ID),
		zap.String("user_id", tx.UserID))

	return tx.ID, nil
}

// UpdateTransaction reports false when no transaction has the id; the store is left unchanged.
func (s *transactionService) UpdateTransaction(ctx context.Context, id int64, cmd TransactionCommand) (bool, error) {
	found := false

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		start := time.Now()
		existing, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, repository.ErrTransactionNotFound) {
			s.recordQuery("select", start, nil)
			return nil
		}
		s.recordQuery("select", start, err)
		if err != nil {
			return NewServiceError(constants.ErrCodeDatabase, err)
		}

		found = true
		updated := s.factory.UpdateTransaction(existing, cmd)

		start = time.Now()
		err = s.repo.Update(ctx, updated)
		s.recordQuery("update", start, err)
		if err != nil {
			return NewServiceError(constants.ErrCodeDatabase, err)
		}

		return nil
	})
	if err != nil {
		s.log.Error("Failed to update transaction", zap.Int64("transaction_id", id), zap.Error(err))
		return false, err
	}

	if !found {
		s.log.Warn("Transaction to update not found", zap.Int64("transaction_id", id))
		return false, nil
	}

	s.metrics.RecordTransactionWrite("update", string(cmd.TransactionType))
	s.invalidateSummaries(ctx)

	return true, nil
}

// DeleteTransaction reports false when no transaction has the id.
func (s *transactionService) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	var deleted *model.Transaction

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		start := time.Now()
		existing, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, repository.ErrTransactionNotFound) {
			s.recordQuery("select", start, nil)
			return nil
		}
		s.recordQuery("select", start, err)
		if err != nil {
			return NewServiceError(constants.ErrCodeDatabase, err)
		}

		start = time.Now()
		err = s.repo.Delete(ctx, existing.ID)
		if errors.Is(err, repository.ErrTransactionNotFound) {
			// removed by a concurrent delete after the lookup
			s.recordQuery("delete", start, nil)
			return nil
		}
		s.recordQuery("delete", start, err)
		if err != nil {
			return NewServiceError(constants.ErrCodeDatabase, err)
		}

		deleted = existing
		return nil
	})
	if err != nil {
		s.log.Error("Failed to delete transaction", zap.Int64("transaction_id", id), zap.Error(err))
		return false, err
	}

	if deleted == nil {
		s.log.Warn("Transaction to delete not found", zap.Int64("transaction_id", id))
		return false, nil
	}

	s.metrics.RecordTransactionWrite("delete", string(deleted.TransactionType))
	s.invalidateSummaries(ctx)

	return true, nil
}

// invalidateSummaries drops cached summaries after a write. Cache failures
// never fail the write.
func (s *transactionService) invalidateSummaries(ctx context.Context) {
	if err := s.summaryCache.Delete(ctx, cache.SummaryKeys...); err != nil {
		s.log.Warn("Failed to invalidate summary cache", zap.Error(err))
	}
}

func (s *transactionService) recordQuery(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordDBQuery(operation, transactionsTable, status, time.Since(start))
}

func outcome(n int) string {
	if n == 0 {
		return "empty"
	}
	return "found"
}
