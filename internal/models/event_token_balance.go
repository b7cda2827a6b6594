package models

import "time"

// EventTokenBalance is the per-event sub-ledger of a wallet's event tokens.
type EventTokenBalance struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	UserID      uint       `gorm:"uniqueIndex:idx_event_token_user_event;not null" json:"user_id"`
	WalletID    uint       `gorm:"index;not null" json:"wallet_id"`
	Wallet      *Wallet    `gorm:"foreignKey:WalletID" json:"-"`
	EventID     string     `gorm:"type:varchar(100);uniqueIndex:idx_event_token_user_event;not null" json:"event_id"`
	Balance     int64      `gorm:"not null;default:0" json:"balance"`
	EarnedTotal int64      `gorm:"not null;default:0" json:"earned_total"`
	SpentTotal  int64      `gorm:"not null;default:0" json:"spent_total"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsExpiredAt reports whether the balance has an expiry that lies before now.
func (b *EventTokenBalance) IsExpiredAt(now time.Time) bool {
	return b.ExpiresAt != nil && now.After(*b.ExpiresAt)
}
