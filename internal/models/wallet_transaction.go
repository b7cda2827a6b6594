package models

import "time"

type TransactionType string

const (
	TransactionEarn       TransactionType = "earn"
	TransactionSpend      TransactionType = "spend"
	TransactionPurchase   TransactionType = "purchase"
	TransactionRefund     TransactionType = "refund"
	TransactionTransfer   TransactionType = "transfer"
	TransactionBonus      TransactionType = "bonus"
	TransactionPenalty    TransactionType = "penalty"
	TransactionAdminGrant TransactionType = "admin_grant"
)

// Direction is the sign a transaction type applies to a balance.
type Direction int

const (
	DirectionEither Direction = 0
	DirectionCredit Direction = 1
	DirectionDebit  Direction = -1
)

// Direction reports the sign convention of t and whether t is known.
func (t TransactionType) Direction() (Direction, bool) {
	switch t {
	case TransactionEarn, TransactionRefund, TransactionBonus, TransactionAdminGrant:
		return DirectionCredit, true
	case TransactionSpend, TransactionPurchase, TransactionPenalty:
		return DirectionDebit, true
	case TransactionTransfer:
		return DirectionEither, true
	default:
		return DirectionEither, false
	}
}

// Reference types linking a ledger entry to the row that caused it.
const (
	ReferenceProduct           = "product"
	ReferencePurchase          = "purchase"
	ReferenceWalletTransaction = "wallet_transaction"
)

// WalletTransaction is an append-only ledger entry. Rows are inserted once
// and never updated or deleted.
type WalletTransaction struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	WalletID        uint            `gorm:"index;not null" json:"wallet_id"`
	Wallet          *Wallet         `gorm:"foreignKey:WalletID" json:"-"`
	UserID          uint            `gorm:"index;not null" json:"user_id"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null" json:"transaction_type"`
	CurrencyType    Currency        `gorm:"type:varchar(20);not null" json:"currency_type"`
	Amount          int64           `gorm:"not null" json:"amount"`
	BalanceBefore   int64           `gorm:"not null" json:"balance_before"`
	BalanceAfter    int64           `gorm:"not null" json:"balance_after"`
	ReferenceType   string          `gorm:"type:varchar(40)" json:"reference_type,omitempty"`
	ReferenceID     *uint           `gorm:"index" json:"reference_id,omitempty"`
	Description     string          `gorm:"type:text" json:"description"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}
