// Package ledger builds and audits the append-only wallet transaction log.
package ledger

import (
	"fmt"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
)

// NewEntry records one balance mutation of w. The caller has already moved the
// balance from before to after; NewEntry refuses anything that breaks the sign
// convention of the transaction type.
func NewEntry(w *models.Wallet, txType models.TransactionType, currency models.Currency, amount, before, after int64) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if !currency.Valid() {
		return nil, apperrors.ErrUnsupportedCurrency
	}
	if err := CheckSign(txType, amount, before, after); err != nil {
		return nil, err
	}

	return &models.WalletTransaction{
		WalletID:        w.ID,
		UserID:          w.UserID,
		TransactionType: txType,
		CurrencyType:    currency,
		Amount:          amount,
		BalanceBefore:   before,
		BalanceAfter:    after,
	}, nil
}

// CheckSign verifies balance_after = balance_before ± amount for txType.
func CheckSign(txType models.TransactionType, amount, before, after int64) error {
	dir, ok := txType.Direction()
	if !ok {
		return apperrors.ErrUnsupportedTransactionType.Withf("unsupported transaction type %q", txType)
	}

	delta := after - before
	var valid bool
	switch dir {
	case models.DirectionCredit:
		valid = delta == amount
	case models.DirectionDebit:
		valid = delta == -amount
	default:
		valid = delta == amount || delta == -amount
	}
	if !valid {
		return apperrors.ErrLedgerEntryInvalid.Withf(
			"%s of %d cannot move a balance from %d to %d", txType, amount, before, after)
	}
	return nil
}

// Problem describes one break in a wallet's ledger.
type Problem struct {
	EntryID  uint            `json:"entry_id,omitempty"`
	Currency models.Currency `json:"currency"`
	Detail   string          `json:"detail"`
}

type CurrencyReport struct {
	Entries          int   `json:"entries"`
	LastBalanceAfter int64 `json:"last_balance_after"`
	WalletBalance    int64 `json:"wallet_balance"`
}

// Report is the outcome of reconciling a wallet against its ledger.
type Report struct {
	WalletID   uint                              `json:"wallet_id"`
	Currencies map[models.Currency]CurrencyReport `json:"currencies"`
	Problems   []Problem                         `json:"problems"`
}

func (r *Report) Consistent() bool {
	return len(r.Problems) == 0
}

// Reconcile walks entries in insertion order. Per currency each entry must
// start where the previous one ended and respect its sign convention, and the
// last balance_after must equal the wallet's current balance. Currencies with
// no entries are not checked since opening balances are not journaled.
func Reconcile(w *models.Wallet, entries []models.WalletTransaction) *Report {
	report := &Report{
		WalletID:   w.ID,
		Currencies: make(map[models.Currency]CurrencyReport),
		Problems:   []Problem{},
	}

	last := make(map[models.Currency]int64)
	for _, e := range entries {
		if e.WalletID != w.ID {
			report.add(e.ID, e.CurrencyType, "entry belongs to wallet %d", e.WalletID)
			continue
		}
		if !e.CurrencyType.Valid() {
			report.add(e.ID, e.CurrencyType, "unknown currency")
			continue
		}
		if err := CheckSign(e.TransactionType, e.Amount, e.BalanceBefore, e.BalanceAfter); err != nil {
			report.add(e.ID, e.CurrencyType, "%v", err)
		}
		if prev, seen := last[e.CurrencyType]; seen && prev != e.BalanceBefore {
			report.add(e.ID, e.CurrencyType, "balance_before %d does not follow previous balance_after %d", e.BalanceBefore, prev)
		}
		last[e.CurrencyType] = e.BalanceAfter

		cr := report.Currencies[e.CurrencyType]
		cr.Entries++
		cr.LastBalanceAfter = e.BalanceAfter
		report.Currencies[e.CurrencyType] = cr
	}

	for _, c := range models.Currencies() {
		cr, ok := report.Currencies[c]
		if !ok {
			continue
		}
		balance, _ := w.Balance(c)
		cr.WalletBalance = balance
		report.Currencies[c] = cr
		if balance != cr.LastBalanceAfter {
			report.add(0, c, "wallet balance %d differs from ledger balance %d", balance, cr.LastBalanceAfter)
		}
	}
	return report
}

func (r *Report) add(entryID uint, c models.Currency, format string, args ...interface{}) {
	r.Problems = append(r.Problems, Problem{
		EntryID:  entryID,
		Currency: c,
		Detail:   fmt.Sprintf(format, args...),
	})
}
