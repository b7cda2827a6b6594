// Package eventtoken keeps the per-event token balances of a wallet. These
// balances have their own earned/spent totals and never touch the wallet
// ledger.
package eventtoken

import (
	"time"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
)

// IsExpired reports whether b carries an expiry that has passed. It never
// mutates b.
func IsExpired(b *models.EventTokenBalance, now time.Time) bool {
	return b.IsExpiredAt(now)
}

// Add credits an unexpired balance.
func Add(b *models.EventTokenBalance, amount int64, now time.Time) error {
	if IsExpired(b, now) {
		return apperrors.ErrEventTokensExpired
	}
	if amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	b.Balance += amount
	b.EarnedTotal += amount
	return nil
}

// Spend debits an unexpired balance that holds at least amount.
func Spend(b *models.EventTokenBalance, amount int64, now time.Time) error {
	if IsExpired(b, now) {
		return apperrors.ErrEventTokensExpired
	}
	if amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	if b.Balance < amount {
		return apperrors.ErrInsufficientFunds.Withf(
			"insufficient tokens for event %s: balance %d, required %d", b.EventID, b.Balance, amount)
	}
	b.Balance -= amount
	b.SpentTotal += amount
	return nil
}
