package cache

import (
	"context"
	"time"
)

const (
	KeySummaryByTransactionType = "ledger:summary:transaction_type"
	KeySummaryByUser            = "ledger:summary:user"
)

// SummaryKeys lists every key that a ledger write makes stale.
var SummaryKeys = []string{KeySummaryByTransactionType, KeySummaryByUser}

type SummaryCache interface {
	// Get decodes the cached value for key into dest and reports whether it was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type noop struct{}

// NewNoopCache returns a SummaryCache that never stores anything.
func NewNoopCache() SummaryCache {
	return noop{}
}

func (noop) Get(context.Context, string, any) (bool, error) {
	return false, nil
}

func (noop) Set(context.Context, string, any, time.Duration) error {
	return nil
}

func (noop) Delete(context.Context, ...string) error {
	return nil
}
