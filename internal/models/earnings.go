package models

import "time"

// UserEarnings is the per-user balance snapshot maintained by the ledger.
// All fields are lifetime aggregates except AvailableBalance.
type UserEarnings struct {
	UserID           uint      `json:"user_id"`
	TotalEarned      float64   `json:"total_earned"`
	AvailableBalance float64   `json:"available_balance"`
	PendingBalance   float64   `json:"pending_balance"`
	TotalWithdrawn   float64   `json:"total_withdrawn"`
	TotalFeesPaid    float64   `json:"total_fees_paid"`
	LastUpdated      time.Time `json:"last_updated"`
}

// PlatformRevenue is the global revenue aggregate. TotalRevenue always
// equals the sum of the per-source fields; Monthly and Daily bucket the
// same amounts by calendar period in the ledger's local time.
type PlatformRevenue struct {
	TotalRevenue             float64            `json:"total_revenue"`
	CommissionRevenue        float64            `json:"commission_revenue"`
	WithdrawalFeeRevenue     float64            `json:"withdrawal_fee_revenue"`
	JobPostingRevenue        float64            `json:"job_posting_revenue"`
	SubscriptionRevenue      float64            `json:"subscription_revenue"`
	PaymentProcessingRevenue float64            `json:"payment_processing_revenue"`
	Monthly                  map[string]float64 `json:"monthly"` // keyed "2006-01"
	Daily                    map[string]float64 `json:"daily"`   // keyed "2006-01-02"
}

// NewPlatformRevenue returns a zeroed revenue aggregate with allocated buckets.
func NewPlatformRevenue() *PlatformRevenue {
	return &PlatformRevenue{
		Monthly: make(map[string]float64),
		Daily:   make(map[string]float64),
	}
}
