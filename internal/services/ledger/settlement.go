package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gigdesk/internal/logger"
	"gigdesk/internal/models"
)

// settler completes pending withdrawals after a fixed delay. Each
// scheduled settlement carries a result channel so callers can await
// the outcome instead of polling.
type settler struct {
	svc   *Service
	delay time.Duration

	mu      sync.Mutex
	pending map[string]chan error
}

func newSettler(svc *Service, delay time.Duration) *settler {
	return &settler{
		svc:     svc,
		delay:   delay,
		pending: make(map[string]chan error),
	}
}

// schedule queues the settlement of a pending withdrawal.
func (st *settler) schedule(txID string) {
	done := make(chan error, 1)

	st.mu.Lock()
	st.pending[txID] = done
	st.mu.Unlock()

	time.AfterFunc(st.delay, func() {
		err := st.svc.settleWithdrawal(context.Background(), txID)

		st.mu.Lock()
		delete(st.pending, txID)
		st.mu.Unlock()

		done <- err
		close(done)
	})
}

// await blocks until the given withdrawal settles or ctx expires. For
// transactions that already settled it resolves from the recorded status.
func (st *settler) await(ctx context.Context, txID string) error {
	st.mu.Lock()
	done, ok := st.pending[txID]
	st.mu.Unlock()

	if !ok {
		tx, err := st.svc.GetTransaction(txID)
		if err != nil {
			return err
		}
		if tx.Status == models.TransactionStatusFailed {
			return ErrSettlementFailed
		}
		return nil
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AwaitSettlement blocks until the withdrawal with the given id settles,
// returning ErrSettlementFailed if settlement could not complete.
func (s *Service) AwaitSettlement(ctx context.Context, txID string) error {
	return s.settler.await(ctx, txID)
}

// settleWithdrawal flips a pending withdrawal to completed. If the
// completed state cannot be persisted the withdrawal is marked failed
// and the user's debit is refunded.
func (s *Service) settleWithdrawal(ctx context.Context, txID string) error {
	s.mu.Lock()

	tx := s.findTransaction(txID)
	if tx == nil {
		s.mu.Unlock()
		return ErrTransactionNotFound
	}
	if tx.Status != models.TransactionStatusPending {
		// Status transitions are monotonic; nothing to do.
		s.mu.Unlock()
		return nil
	}

	now := s.now()
	tx.Status = models.TransactionStatusCompleted
	tx.CompletedAt = &now

	if err := s.store.Save(ctx, s.state); err != nil {
		s.failWithdrawal(tx)
		s.mu.Unlock()
		s.observers.notify()
		return fmt.Errorf("%w: %v", ErrSettlementFailed, err)
	}
	s.mu.Unlock()

	s.observers.notify()
	return nil
}

// failWithdrawal marks a withdrawal failed and reverses its effects:
// the debit returns to the available balance and the fee revenue is
// backed out. Callers must hold the write lock.
func (s *Service) failWithdrawal(tx *models.TransactionRecord) {
	tx.Status = models.TransactionStatusFailed
	tx.CompletedAt = nil

	if earnings, ok := s.state.Earnings[tx.UserID]; ok {
		earnings.AvailableBalance = roundCents(earnings.AvailableBalance + tx.Amount)
		earnings.TotalWithdrawn = roundCents(earnings.TotalWithdrawn - tx.Amount)
		earnings.TotalFeesPaid = roundCents(earnings.TotalFeesPaid - tx.Fees)
		earnings.LastUpdated = s.now()
	}

	rev := s.state.Revenue
	rev.WithdrawalFeeRevenue = roundCents(rev.WithdrawalFeeRevenue - tx.Fees)
	rev.TotalRevenue = roundCents(rev.TotalRevenue - tx.Fees)

	now := s.now()
	monthKey := now.Format(MonthKeyLayout)
	dayKey := now.Format(DayKeyLayout)
	rev.Monthly[monthKey] = roundCents(rev.Monthly[monthKey] - tx.Fees)
	rev.Daily[dayKey] = roundCents(rev.Daily[dayKey] - tx.Fees)

	// Persist best-effort: if the store is down the in-memory state is
	// still authoritative and a later save will include this record.
	if err := s.store.Save(context.Background(), s.state); err != nil {
		logger.L().WithError(err).WithField("transaction_id", tx.ID).
			Warn("failed withdrawal not yet persisted")
	}
}

// findTransaction returns the live record, not a copy. Callers must
// hold the lock.
func (s *Service) findTransaction(id string) *models.TransactionRecord {
	for _, tx := range s.state.Transactions {
		if tx.ID == id {
			return tx
		}
	}
	return nil
}
