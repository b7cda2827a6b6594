package models

import "time"

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseCancelled PurchaseStatus = "cancelled"
	PurchaseRefunded  PurchaseStatus = "refunded"
	PurchaseFailed    PurchaseStatus = "failed"
)

// CountedPurchaseStatuses are the statuses that use up a product's max_purchases.
var CountedPurchaseStatuses = []PurchaseStatus{PurchasePending, PurchaseCompleted, PurchaseRefunded}

type ProductPurchase struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	UserID        uint            `gorm:"index;not null" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID" json:"-"`
	ProductID     uint            `gorm:"index;not null" json:"product_id"`
	Product       *VirtualProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CurrencyType  Currency        `gorm:"type:varchar(20);not null" json:"currency_type"`
	AmountPaid    int64           `gorm:"not null" json:"amount_paid"`
	Status        PurchaseStatus  `gorm:"type:varchar(20);not null;index" json:"status"`
	PurchasedAt   time.Time       `gorm:"not null" json:"purchased_at"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	IsDelivered   bool            `gorm:"not null" json:"is_delivered"`
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
	TransactionID *uint           `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsActiveAt reports whether the purchase is completed and not past its expiry.
func (p *ProductPurchase) IsActiveAt(now time.Time) bool {
	if p.Status != PurchaseCompleted {
		return false
	}
	return p.ExpiresAt == nil || !now.After(*p.ExpiresAt)
}
