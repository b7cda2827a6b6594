package wallet

import (
	"context"
	"time"

	"sfstore/internal/models"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordTransaction(string, string, int64)       {}
func (n *NoopMetricsCollector) RecordError(string, string)                    {}
func (n *NoopMetricsCollector) RecordCacheHit(string)                         {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)                        {}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) GetWallet(context.Context, uint) (*models.Wallet, error) { return nil, nil }
func (NoopCache) CacheWallet(context.Context, *models.Wallet) error       { return nil }
func (NoopCache) InvalidateWallet(context.Context, uint) error            { return nil }
