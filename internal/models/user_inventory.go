package models

import "time"

// ItemState is the derived lifecycle state of an inventory item.
type ItemState string

const (
	ItemActiveUnequipped ItemState = "active-unequipped"
	ItemActiveEquipped   ItemState = "active-equipped"
	ItemConsumed         ItemState = "consumed"
	ItemExpired          ItemState = "expired"
	ItemInactive         ItemState = "inactive"
)

type UserInventory struct {
	ID            uint             `gorm:"primarykey" json:"id"`
	UserID        uint             `gorm:"index;not null" json:"user_id"`
	User          *User            `gorm:"foreignKey:UserID" json:"-"`
	ProductID     uint             `gorm:"index;not null" json:"product_id"`
	Product       *VirtualProduct  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	PurchaseID    *uint            `gorm:"index" json:"purchase_id,omitempty"`
	Purchase      *ProductPurchase `gorm:"foreignKey:PurchaseID" json:"-"`
	Quantity      int              `gorm:"not null" json:"quantity"`
	RemainingUses *int             `json:"remaining_uses,omitempty"`
	AcquiredAt    time.Time        `gorm:"not null" json:"acquired_at"`
	ExpiresAt     *time.Time       `json:"expires_at,omitempty"`
	IsEquipped    bool             `gorm:"not null" json:"is_equipped"`
	IsActive      bool             `gorm:"not null" json:"is_active"`
	IsConsumed    bool             `gorm:"not null" json:"is_consumed"`
	Expired       bool             `gorm:"not null" json:"expired"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (UserInventory) TableName() string {
	return "user_inventory"
}

// State derives the item's lifecycle state from its flags.
func (i *UserInventory) State() ItemState {
	switch {
	case i.IsConsumed:
		return ItemConsumed
	case i.Expired:
		return ItemExpired
	case !i.IsActive:
		return ItemInactive
	case i.IsEquipped:
		return ItemActiveEquipped
	default:
		return ItemActiveUnequipped
	}
}

// ExpiryDue reports whether an active item has passed its expires_at and has
// not been flagged yet.
func (i *UserInventory) ExpiryDue(now time.Time) bool {
	return !i.Expired && i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}
