package wallet

import (
	"time"

	"sfstore/internal/models"
)

// Config holds configuration for wallet operations
type Config struct {
	DefaultDailyLimit int64
	MaxHistoryLimit   int
	Clock             func() time.Time
}

// Mutation is one balance change applied by the engine.
type Mutation struct {
	Type          models.TransactionType
	Currency      models.Currency
	Amount        int64
	Description   string
	ReferenceType string
	ReferenceID   *uint
}

// Result is the committed wallet state and the entry that recorded it.
type Result struct {
	Wallet *models.Wallet
	Entry  *models.WalletTransaction
}

// RefundRequest credits a wallet back. When AgainstTransactionID is set the
// refund is checked against that spend or purchase entry.
type RefundRequest struct {
	UserID               uint
	Currency             models.Currency
	Amount               int64
	Reason               string
	AgainstTransactionID *uint

	// Overrides the reference recorded on the refund entry.
	ReferenceType string
	ReferenceID   *uint
}

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordTransaction(txType, currency string, amount int64)
	RecordError(operation, code string)
	RecordCacheHit(name string)
	RecordCacheMiss(name string)
}
