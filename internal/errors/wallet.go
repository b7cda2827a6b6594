package errors

var (
	ErrWalletNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrInvalidAmount = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "INVALID_AMOUNT",
		Message: "amount must be a positive integer",
	}
	ErrInsufficientFunds = &DomainError{
		Kind:    KindInsufficientFunds,
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient balance",
	}
	ErrDailyLimitExceeded = &DomainError{
		Kind:    KindLimitExceeded,
		Code:    "DAILY_LIMIT_EXCEEDED",
		Message: "daily earning limit exceeded",
	}
	ErrUnsupportedCurrency = &DomainError{
		Kind:    KindUnsupportedCurrency,
		Code:    "UNSUPPORTED_CURRENCY",
		Message: "unsupported currency",
	}
	ErrUnsupportedTransactionType = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "UNSUPPORTED_TRANSACTION_TYPE",
		Message: "unsupported transaction type",
	}
	ErrTransactionNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrInvalidRefundReference = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "INVALID_REFUND_REFERENCE",
		Message: "refund reference must be a spend or purchase of the same wallet and currency",
	}
	ErrRefundExceedsOriginal = &DomainError{
		Kind:    KindLimitReached,
		Code:    "REFUND_EXCEEDS_ORIGINAL",
		Message: "refunds would exceed the original amount",
	}
	ErrLedgerEntryInvalid = &DomainError{
		Kind:    KindInternal,
		Code:    "LEDGER_ENTRY_INVALID",
		Message: "ledger entry does not match its transaction type",
	}

	ErrEventTokensExpired = &DomainError{
		Kind:    KindExpired,
		Code:    "EVENT_TOKENS_EXPIRED",
		Message: "event tokens have expired",
	}
	ErrEventBalanceNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "EVENT_BALANCE_NOT_FOUND",
		Message: "event token balance not found",
	}
	ErrInvalidEvent = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "INVALID_EVENT",
		Message: "event id is required",
	}
)
