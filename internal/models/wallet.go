package models

import (
	"time"

	apperrors "sfstore/internal/errors"

	"gorm.io/gorm"
)

const DefaultDailyEarningLimit int64 = 1000

type Wallet struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	UserID            uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User              *User     `gorm:"foreignKey:UserID" json:"-"`
	SfCoins           int64     `gorm:"not null;default:0" json:"sf_coins"`
	PremiumGems       int64     `gorm:"not null;default:0" json:"premium_gems"`
	EventTokens       int64     `gorm:"not null;default:0" json:"event_tokens"`
	TotalCoinsEarned  int64     `gorm:"not null;default:0" json:"total_coins_earned"`
	TotalCoinsSpent   int64     `gorm:"not null;default:0" json:"total_coins_spent"`
	DailyEarnings     int64     `gorm:"not null;default:0" json:"daily_earnings"`
	DailyEarningLimit int64     `gorm:"not null" json:"daily_earning_limit"`
	LastEarningReset  time.Time `gorm:"not null" json:"last_earning_reset"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.DailyEarningLimit == 0 {
		w.DailyEarningLimit = DefaultDailyEarningLimit
	}
	if w.LastEarningReset.IsZero() {
		w.LastEarningReset = time.Now().UTC()
	}
	return nil
}

// BalanceField returns the balance slot backing a currency. Only the balance
// engine writes through it.
func (w *Wallet) BalanceField(c Currency) (*int64, error) {
	switch c {
	case SfCoins:
		return &w.SfCoins, nil
	case PremiumGems:
		return &w.PremiumGems, nil
	case EventTokens:
		return &w.EventTokens, nil
	default:
		return nil, apperrors.ErrUnsupportedCurrency
	}
}

func (w *Wallet) Balance(c Currency) (int64, error) {
	field, err := w.BalanceField(c)
	if err != nil {
		return 0, err
	}
	return *field, nil
}
