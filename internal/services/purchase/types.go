package purchase

import (
	"context"
	"time"

	"sfstore/internal/models"
)

// Request is one attempt by a user to buy a product. UserLevel and
// Achievements are optional; when UserLevel is nil the product's level and
// achievement requirements are not checked.
type Request struct {
	UserID       uint
	ProductID    uint
	UserLevel    *int
	Achievements []string
}

// Receipt is everything a successful purchase wrote.
type Receipt struct {
	Purchase *models.ProductPurchase   `json:"purchase"`
	Item     *models.UserInventory     `json:"item"`
	Wallet   *models.Wallet            `json:"wallet"`
	Entry    *models.WalletTransaction `json:"transaction,omitempty"`
}

// RefundReceipt is the outcome of refunding a completed purchase.
type RefundReceipt struct {
	Purchase *models.ProductPurchase   `json:"purchase"`
	Wallet   *models.Wallet            `json:"wallet"`
	Entry    *models.WalletTransaction `json:"transaction,omitempty"`
}

// Record is a purchase as shown in a user's history.
type Record struct {
	models.ProductPurchase
	IsActive bool `json:"is_active"`
}

type Service interface {
	Purchase(ctx context.Context, req Request) (*Receipt, error)
	RefundPurchase(ctx context.Context, purchaseID uint, reason string) (*RefundReceipt, error)
	ListPurchases(ctx context.Context, userID uint) ([]Record, error)
}

type MetricsCollector interface {
	RecordPurchase(productType, currency, status string)
	RecordTransaction(txType, currency string, amount int64)
	RecordError(operation, code string)
	RecordOperationDuration(operation string, duration time.Duration)
}

// WalletCache is the part of the wallet cache a purchase has to refresh.
type WalletCache interface {
	InvalidateWallet(ctx context.Context, userID uint) error
}

type noopMetrics struct{}

func (noopMetrics) RecordPurchase(string, string, string)         {}
func (noopMetrics) RecordTransaction(string, string, int64)       {}
func (noopMetrics) RecordError(string, string)                    {}
func (noopMetrics) RecordOperationDuration(string, time.Duration) {}

type noopCache struct{}

func (noopCache) InvalidateWallet(context.Context, uint) error { return nil }
