/*
Package wallet is the balance engine. Every mutation locks the wallet row,
applies exactly one balance change and appends the matching ledger entry in
the same transaction.

Usage:

	svc := wallet.NewService(store, cache, wallet.Config{}, metrics)

	// Earn soft currency, capped per UTC day
	res, err := svc.Earn(ctx, userID, 50, "quest reward")

	// Spend any currency
	res, err = svc.Spend(ctx, userID, models.PremiumGems, 20, "skin unlock")

	// Refund part of an earlier spend
	res, err = svc.Refund(ctx, wallet.RefundRequest{
	    UserID:               userID,
	    Currency:             models.PremiumGems,
	    Amount:               20,
	    AgainstTransactionID: &res.Entry.ID,
	})

Callers that already hold a transaction (the purchase flow) lock the wallet
with LockWallet and mutate it with Apply or ApplyRefund instead.

Errors are apperrors.DomainError values: ErrInvalidAmount, ErrInsufficientFunds,
ErrDailyLimitExceeded, ErrUnsupportedCurrency, ErrWalletNotFound and the
refund reference errors. Anything else is reported as internal.
*/
package wallet
