package ledger

import "time"

// Revenue sources tracked by the platform aggregate.
const (
	RevenueSourceCommission        = "commission"
	RevenueSourceWithdrawalFee     = "withdrawal_fee"
	RevenueSourceJobPosting        = "job_posting"
	RevenueSourceSubscription      = "subscription"
	RevenueSourcePaymentProcessing = "payment_processing"
)

// Revenue bucket key layouts.
const (
	MonthKeyLayout = "2006-01"
	DayKeyLayout   = "2006-01-02"
)

// Default configuration values
const (
	DefaultSettlementDelay = 2 * time.Second
)
