package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type VirtualProduct struct {
	ID                   uint            `gorm:"primarykey" json:"id"`
	Name                 string          `gorm:"type:varchar(100);not null" json:"name"`
	Description          string          `gorm:"type:text" json:"description"`
	ProductType          string          `gorm:"type:varchar(50);not null;index" json:"product_type"`
	CurrencyType         Currency        `gorm:"type:varchar(20);not null" json:"currency_type"`
	Price                decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	DurationDays         *int            `json:"duration_days"`
	Consumable           bool            `gorm:"not null" json:"consumable"`
	MaxPurchases         *int            `json:"max_purchases"`
	StockQuantity        *int            `json:"stock_quantity"`
	MinUserLevel         int             `gorm:"not null" json:"min_user_level"`
	RequiredAchievements StringSet       `gorm:"type:text" json:"required_achievements"`
	IsActive             bool            `gorm:"not null;index" json:"is_active"`
	AvailableFrom        *time.Time      `json:"available_from,omitempty"`
	AvailableTo          *time.Time      `json:"available_to,omitempty"`
	IconURL              string          `gorm:"type:varchar(255)" json:"icon_url,omitempty"`
	PreviewURL           string          `gorm:"type:varchar(255)" json:"preview_url,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
