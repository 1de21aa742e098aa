/*
Package ledger implements the platform's fee and revenue bookkeeping.

The ledger service handles all money-movement accounting:
- Job posting charges (base + featured + urgent fees)
- Worker payouts (gross pay minus platform commission)
- Withdrawal requests (fixed + percentage fee, delayed settlement)
- Premium subscription charges
- Per-user earnings snapshots and platform revenue aggregates

Usage:

	store := repositories.NewLedgerStore(db)
	svc, err := ledger.New(ctx, store, models.DefaultFeeStructure, ledger.Config{})

	// Quote a posting before charging
	cost := svc.CalculateJobPostingCost(50, 10, true, false)

	// Pay a worker for a completed job
	result, err := svc.ProcessJobPayment(ctx, workerID, &jobID, 100, "Survey batch #4")

	// Request a withdrawal; settlement completes asynchronously
	tx, err := svc.ProcessWithdrawal(ctx, userID, 30, "bank_transfer")
	err = svc.AwaitSettlement(ctx, tx.ID)

Every mutating operation appends a transaction record, updates the
affected earnings and revenue aggregates, persists the whole state
through the Store and then notifies subscribers. Operations are
all-or-nothing: if the store rejects the save, the in-memory state is
rolled back and the error returned.

Error Handling:

- ErrInsufficientBalance: withdrawal exceeds available balance
- ErrBelowMinimumWithdrawal: amount under the configured minimum
- ErrAmountTooSmall: net amount would be zero or negative after fees
- ErrSettlementFailed: delayed withdrawal settlement could not complete
*/
package ledger
