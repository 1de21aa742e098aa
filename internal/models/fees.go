package models

import "errors"

// FeeStructure holds every platform fee knob. It is set once at startup
// and treated as constant for the lifetime of the process; the admin API
// exposes it read-only.
type FeeStructure struct {
	PlatformCommission      float64 `json:"platform_commission"`       // percent taken from each job payment
	WithdrawalFee           float64 `json:"withdrawal_fee"`            // fixed amount per withdrawal
	WithdrawalFeePercentage float64 `json:"withdrawal_fee_percentage"` // percent of the withdrawn amount
	MinimumWithdrawal       float64 `json:"minimum_withdrawal"`
	JobPostingFee           float64 `json:"job_posting_fee"`
	FeaturedJobFee          float64 `json:"featured_job_fee"`
	UrgentJobFee            float64 `json:"urgent_job_fee"`
	PaymentProcessingFee    float64 `json:"payment_processing_fee"` // percent, reserved for card processing
	EmployerPremiumMonthly  float64 `json:"employer_premium_monthly"`
	WorkerPremiumMonthly    float64 `json:"worker_premium_monthly"`
}

// DefaultFeeStructure is the platform's standard pricing.
var DefaultFeeStructure = FeeStructure{
	PlatformCommission:      15, // 15% per job payment
	WithdrawalFee:           2.5,
	WithdrawalFeePercentage: 2, // +2% of the amount
	MinimumWithdrawal:       25,
	JobPostingFee:           5,
	FeaturedJobFee:          10,
	UrgentJobFee:            5,
	PaymentProcessingFee:    2.9,
	EmployerPremiumMonthly:  29.99,
	WorkerPremiumMonthly:    9.99,
}

var ErrInvalidFeeStructure = errors.New("invalid fee structure")

// Validate checks that percentages are within [0,100] and currency
// amounts are non-negative.
func (f FeeStructure) Validate() error {
	for _, p := range []float64{f.PlatformCommission, f.WithdrawalFeePercentage, f.PaymentProcessingFee} {
		if p < 0 || p > 100 {
			return ErrInvalidFeeStructure
		}
	}
	amounts := []float64{
		f.WithdrawalFee, f.MinimumWithdrawal, f.JobPostingFee, f.FeaturedJobFee,
		f.UrgentJobFee, f.EmployerPremiumMonthly, f.WorkerPremiumMonthly,
	}
	for _, a := range amounts {
		if a < 0 {
			return ErrInvalidFeeStructure
		}
	}
	return nil
}
