package wallet

const (
	DefaultHistoryLimit = 20
	DefaultMaxHistory   = 100
)

// Operation names used in logs and metrics
const (
	opEarn       = "earn"
	opSpend      = "spend"
	opRefund     = "refund"
	opGrant      = "grant"
	opBonus      = "award_bonus"
	opResetDaily = "reset_daily_tracker"
	opReconcile  = "reconcile"
)
