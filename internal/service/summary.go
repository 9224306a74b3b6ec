package service

import (
	"context"
	"time"

	"github.com/Behyna/transaction-ledger/internal/cache"
	"github.com/Behyna/transaction-ledger/internal/constants"
	"github.com/Behyna/transaction-ledger/internal/metrics"
	"github.com/Behyna/transaction-ledger/internal/repository"
	"go.uber.org/zap"
)

type TransactionSummaryService interface {
	SummaryByTransactionType(ctx context.Context) ([]TransactionTypeSummaryDTO, error)
	SummaryByUser(ctx context.Context) ([]UserSummaryDTO, error)
}

type summaryService struct {
	repo         repository.TransactionRepository
	summaryCache cache.SummaryCache
	ttl          time.Duration
	log          *zap.Logger
	metrics      *metrics.Metrics
}

func NewTransactionSummaryService(repo repository.TransactionRepository, summaryCache cache.SummaryCache,
	ttl time.Duration, log *zap.Logger, metrics *metrics.Metrics) TransactionSummaryService {
	return &summaryService{repo: repo, summaryCache: summaryCache, ttl: ttl, log: log, metrics: metrics}
}

func (s *summaryService) SummaryByTransactionType(ctx context.Context) ([]TransactionTypeSummaryDTO, error) {
	var cached []TransactionTypeSummaryDTO
	if s.lookup(ctx, cache.KeySummaryByTransactionType, "transaction_type", &cached) {
		return cached, nil
	}

	start := time.Now()
	totals, err := s.repo.SumByTransactionType(ctx)
	s.recordQuery(start, err)
	if err != nil {
		s.log.Error("Failed to summarize by transaction type", zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeDatabase, err)
	}

	dtos := make([]TransactionTypeSummaryDTO, 0, len(totals))
	for _, t := range totals {
		dtos = append(dtos, TransactionTypeSummaryDTO{
			TransactionType:        t.TransactionType,
			TotalTransactionAmount: t.TotalAmount,
		})
	}

	s.store(ctx, cache.KeySummaryByTransactionType, dtos)

	return dtos, nil
}

func (s *summaryService) SummaryByUser(ctx context.Context) ([]UserSummaryDTO, error) {
	var cached []UserSummaryDTO
	if s.lookup(ctx, cache.KeySummaryByUser, "user", &cached) {
		return cached, nil
	}

	start := time.Now()
	totals, err := s.repo.SumByUser(ctx)
	s.recordQuery(start, err)
	if err != nil {
		s.log.Error("Failed to summarize by user", zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeDatabase, err)
	}

	dtos := make([]UserSummaryDTO, 0, len(totals))
	for _, t := range totals {
		dtos = append(dtos, UserSummaryDTO{
			UserID:                 t.UserID,
			TotalTransactionAmount: t.TotalAmount,
		})
	}

	s.store(ctx, cache.KeySummaryByUser, dtos)

	return dtos, nil
}

func (s *summaryService) lookup(ctx context.Context, key, summary string, dest any) bool {
	found, err := s.summaryCache.Get(ctx, key, dest)
	if err != nil {
		s.log.Warn("Summary cache read failed", zap.String("key", key), zap.Error(err))
		s.metrics.RecordSummaryCacheLookup(summary, "error")
		return false
	}

	if found {
		s.metrics.RecordSummaryCacheLookup(summary, "hit")
	} else {
		s.metrics.RecordSummaryCacheLookup(summary, "miss")
	}

	return found
}

func (s *summaryService) store(ctx context.Context, key string, value any) {
	if err := s.summaryCache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("Summary cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *summaryService) recordQuery(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordDBQuery("aggregate", transactionsTable, status, time.Since(start))
}
