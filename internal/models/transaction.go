package models

import "time"

// Transaction types
const (
	TransactionTypeJobPayment   = "job_payment"
	TransactionTypeWithdrawal   = "withdrawal"
	TransactionTypeJobPosting   = "job_posting"
	TransactionTypeSubscription = "subscription"
	TransactionTypeRefund       = "refund"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

// TransactionRecord is a single ledger entry. Records are append-only;
// the only later mutation is the pending -> completed/failed status flip
// on withdrawal settlement.
type TransactionRecord struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	UserID      uint       `json:"user_id"`
	Amount      float64    `json:"amount"`
	Fees        float64    `json:"fees"`
	NetAmount   float64    `json:"net_amount"` // amount - fees, except job_posting where net == amount
	Status      string     `json:"status"`
	Description string     `json:"description"`
	JobID       *uint      `json:"job_id,omitempty"`
	Metadata    JSON       `json:"metadata,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsTerminal reports whether the status can no longer change.
func (t *TransactionRecord) IsTerminal() bool {
	switch t.Status {
	case TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusCancelled:
		return true
	}
	return false
}
