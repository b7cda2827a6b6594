package wallet

import (
	"context"
	"errors"
	"math"
	"time"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
	"sfstore/internal/repositories"
	"sfstore/internal/services/ledger"
)

// LockWallet loads the wallet of userID and holds its row lock for the rest
// of tx.
func LockWallet(ctx context.Context, tx repositories.Store, userID uint) (*models.Wallet, error) {
	w, err := tx.Wallets().GetByUserIDForUpdate(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Apply changes a wallet the caller has locked in tx and persists the wallet
// and its ledger entry. Nothing is written when the mutation is rejected.
func Apply(ctx context.Context, tx repositories.Store, w *models.Wallet, m Mutation, now time.Time) (*models.WalletTransaction, error) {
	entry, err := mutate(w, m, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Wallets().Update(ctx, w); err != nil {
		return nil, err
	}
	if err := tx.Ledger().Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ApplyRefund credits a locked wallet. A refund tied to an earlier debit may
// not, together with the refunds already recorded against it, exceed it.
func ApplyRefund(ctx context.Context, tx repositories.Store, w *models.Wallet, req RefundRequest, now time.Time) (*models.WalletTransaction, error) {
	m := Mutation{
		Type:          models.TransactionRefund,
		Currency:      req.Currency,
		Amount:        req.Amount,
		Description:   req.Reason,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
	}
	if m.Description == "" {
		m.Description = "Refund"
	}
	if m.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	if req.AgainstTransactionID != nil {
		orig, err := tx.Ledger().GetByID(ctx, *req.AgainstTransactionID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		if err != nil {
			return nil, err
		}
		if orig.WalletID != w.ID || orig.CurrencyType != req.Currency ||
			(orig.TransactionType != models.TransactionSpend && orig.TransactionType != models.TransactionPurchase) {
			return nil, apperrors.ErrInvalidRefundReference
		}

		refunded, err := tx.Ledger().SumRefundsAgainst(ctx, w.ID, orig.ID)
		if err != nil {
			return nil, err
		}
		if req.Amount > orig.Amount-refunded {
			return nil, apperrors.ErrRefundExceedsOriginal.Withf(
				"refund of %d exceeds the %d left on transaction %d", req.Amount, orig.Amount-refunded, orig.ID)
		}
		if m.ReferenceType == "" {
			m.ReferenceType = models.ReferenceWalletTransaction
			m.ReferenceID = &orig.ID
		}
	}

	return Apply(ctx, tx, w, m, now)
}

// mutate applies m to w in memory and returns the unsaved ledger entry.
func mutate(w *models.Wallet, m Mutation, now time.Time) (*models.WalletTransaction, error) {
	if m.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	balance, err := w.BalanceField(m.Currency)
	if err != nil {
		return nil, err
	}
	before := *balance

	switch m.Type {
	case models.TransactionEarn:
		if m.Currency != models.SfCoins {
			return nil, apperrors.ErrUnsupportedCurrency.Withf("only sf_coins can be earned")
		}
		rollDailyWindow(w, now)
		if m.Amount > w.DailyEarningLimit-w.DailyEarnings {
			return nil, apperrors.ErrDailyLimitExceeded.Withf(
				"daily earning limit of %d reached (%d earned today)", w.DailyEarningLimit, w.DailyEarnings)
		}
		if err := credit(balance, m.Amount); err != nil {
			return nil, err
		}
		w.DailyEarnings += m.Amount
		w.TotalCoinsEarned += m.Amount

	case models.TransactionBonus:
		if m.Currency != models.SfCoins {
			return nil, apperrors.ErrUnsupportedCurrency.Withf("bonuses are paid in sf_coins")
		}
		if err := credit(balance, m.Amount); err != nil {
			return nil, err
		}
		w.TotalCoinsEarned += m.Amount

	case models.TransactionAdminGrant:
		if err := credit(balance, m.Amount); err != nil {
			return nil, err
		}
		if m.Currency == models.SfCoins {
			w.TotalCoinsEarned += m.Amount
		}

	case models.TransactionRefund:
		if err := credit(balance, m.Amount); err != nil {
			return nil, err
		}
		if m.Currency == models.SfCoins {
			w.TotalCoinsSpent -= min(m.Amount, w.TotalCoinsSpent)
		}

	case models.TransactionSpend, models.TransactionPurchase, models.TransactionPenalty:
		if *balance < m.Amount {
			return nil, apperrors.ErrInsufficientFunds.Withf(
				"insufficient %s: balance %d, required %d", m.Currency, *balance, m.Amount)
		}
		*balance -= m.Amount
		if m.Currency == models.SfCoins && m.Type != models.TransactionPenalty {
			w.TotalCoinsSpent += m.Amount
		}

	default:
		return nil, apperrors.ErrUnsupportedTransactionType.Withf("unsupported transaction type %q", m.Type)
	}

	entry, err := ledger.NewEntry(w, m.Type, m.Currency, m.Amount, before, *balance)
	if err != nil {
		return nil, err
	}
	entry.Description = m.Description
	entry.ReferenceType = m.ReferenceType
	entry.ReferenceID = m.ReferenceID
	entry.CreatedAt = now
	return entry, nil
}

func credit(balance *int64, amount int64) error {
	if *balance > math.MaxInt64-amount {
		return apperrors.ErrInvalidAmount.Withf("amount %d would overflow the balance", amount)
	}
	*balance += amount
	return nil
}

// rollDailyWindow zeroes the daily tracker when it was last reset before the
// current UTC day.
func rollDailyWindow(w *models.Wallet, now time.Time) bool {
	if !w.LastEarningReset.Before(startOfDay(now)) {
		return false
	}
	w.DailyEarnings = 0
	w.LastEarningReset = now
	return true
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
