package ledger

import (
	"fmt"
	"math"
)

// roundCents rounds a currency amount to two decimal places.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateJobPostingCost quotes the cost of posting a job. Pure; no
// side effects. Inputs are not validated here: callers are expected to
// check payAmount > 0 and maxWorkers >= 1 before quoting, and garbage
// in produces garbage out.
func (s *Service) CalculateJobPostingCost(payAmount float64, maxWorkers int, featured, urgent bool) JobPostingCost {
	cost := JobPostingCost{
		BaseFee: s.fees.JobPostingFee,
	}
	if featured {
		cost.FeaturedFee = s.fees.FeaturedJobFee
	}
	if urgent {
		cost.UrgentFee = s.fees.UrgentJobFee
	}
	cost.TotalCost = cost.BaseFee + cost.FeaturedFee + cost.UrgentFee

	commission := payAmount * float64(maxWorkers) * s.fees.PlatformCommission / 100
	cost.EstimatedPlatformEarnings = roundCents(cost.TotalCost + commission)

	return cost
}

// CalculateWithdrawalFees quotes the fees on a withdrawal of the given
// amount. Pure; no side effects. Amounts below the configured minimum,
// or small enough that fees consume them entirely, are rejected with
// the fee fields left at zero.
func (s *Service) CalculateWithdrawalFees(amount float64) WithdrawalQuote {
	if amount < s.fees.MinimumWithdrawal {
		return WithdrawalQuote{
			Reason: fmt.Sprintf("minimum withdrawal amount is %.2f", s.fees.MinimumWithdrawal),
		}
	}

	fixedFee := s.fees.WithdrawalFee
	percentageFee := roundCents(amount * s.fees.WithdrawalFeePercentage / 100)
	totalFees := roundCents(fixedFee + percentageFee)
	netAmount := roundCents(amount - totalFees)

	if netAmount <= 0 {
		return WithdrawalQuote{
			FixedFee:      fixedFee,
			PercentageFee: percentageFee,
			TotalFees:     totalFees,
			Reason:        "amount too small after fees",
		}
	}

	return WithdrawalQuote{
		CanWithdraw:   true,
		FixedFee:      fixedFee,
		PercentageFee: percentageFee,
		TotalFees:     totalFees,
		NetAmount:     netAmount,
	}
}
