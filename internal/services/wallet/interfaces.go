package wallet

import (
	"context"

	"sfstore/internal/models"
	"sfstore/internal/services/ledger"
)

// Service defines the wallet balance engine
type Service interface {
	// Reads
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, userID uint, currency models.Currency) (int64, error)
	History(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, int64, error)
	Reconcile(ctx context.Context, userID uint) (*ledger.Report, error)

	// Mutations
	Earn(ctx context.Context, userID uint, amount int64, description string) (*Result, error)
	Spend(ctx context.Context, userID uint, currency models.Currency, amount int64, description string) (*Result, error)
	Refund(ctx context.Context, req RefundRequest) (*Result, error)
	Grant(ctx context.Context, userID uint, currency models.Currency, amount int64, description string) (*Result, error)
	AwardBonus(ctx context.Context, userID uint, amount int64, description string) (*Result, error)

	// Daily tracker
	ResetDailyTracker(ctx context.Context, userID uint) (*models.Wallet, bool, error)
	ResetAllDailyTrackers(ctx context.Context) (int64, error)
}

// Cache holds read-only wallet snapshots.
type Cache interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}
