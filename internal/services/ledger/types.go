package ledger

import (
	"context"
	"time"

	"gigdesk/internal/models"
)

// Store is the persistence boundary of the ledger. Implementations must
// save the whole state atomically.
type Store interface {
	Load(ctx context.Context) (*models.LedgerState, error)
	Save(ctx context.Context, state *models.LedgerState) error
}

// Config holds configuration for the ledger service.
type Config struct {
	SettlementDelay time.Duration // delay before a withdrawal settles
}

// JobPostingCost is the quoted cost of posting a job.
type JobPostingCost struct {
	BaseFee                   float64 `json:"base_fee"`
	FeaturedFee               float64 `json:"featured_fee"`
	UrgentFee                 float64 `json:"urgent_fee"`
	TotalCost                 float64 `json:"total_cost"`
	EstimatedPlatformEarnings float64 `json:"estimated_platform_earnings"`
}

// PaymentResult is the outcome of a processed job payment.
type PaymentResult struct {
	Transaction *models.TransactionRecord `json:"transaction"`
	WorkerNet   float64                   `json:"worker_net"`
	PlatformFee float64                   `json:"platform_fee"`
}

// WithdrawalQuote breaks down the fees on a prospective withdrawal.
// When CanWithdraw is false the fee fields stay zeroed and Reason says why.
type WithdrawalQuote struct {
	CanWithdraw   bool    `json:"can_withdraw"`
	FixedFee      float64 `json:"fixed_fee"`
	PercentageFee float64 `json:"percentage_fee"`
	TotalFees     float64 `json:"total_fees"`
	NetAmount     float64 `json:"net_amount"`
	Reason        string  `json:"reason,omitempty"`
}
