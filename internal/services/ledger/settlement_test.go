package ledger

import (
	"context"
	"testing"
	"time"

	"gigdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettlementService(t *testing.T, delay time.Duration) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	svc, err := New(context.Background(), store, models.DefaultFeeStructure, Config{SettlementDelay: delay})
	require.NoError(t, err)
	return svc, store
}

func TestWithdrawalSettles(t *testing.T) {
	svc, _ := newSettlementService(t, 10*time.Millisecond)
	ctx := context.Background()
	payWorker(t, svc, 1, 100)

	tx, err := svc.ProcessWithdrawal(ctx, 1, 30, "bank_transfer")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
	assert.Nil(t, tx.CompletedAt)

	require.NoError(t, svc.AwaitSettlement(ctx, tx.ID))

	settled, err := svc.GetTransaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, settled.Status)
	require.NotNil(t, settled.CompletedAt)
	assert.False(t, settled.CompletedAt.Before(settled.CreatedAt))

	// The debit happened at request time; settlement changes nothing else
	assert.InDelta(t, 55.0, svc.UserEarnings(1).AvailableBalance, 1e-9)
}

func TestAwaitSettlement(t *testing.T) {
	t.Run("already settled resolves from the record", func(t *testing.T) {
		svc, _ := newSettlementService(t, time.Millisecond)
		ctx := context.Background()
		payWorker(t, svc, 1, 100)

		tx, err := svc.ProcessWithdrawal(ctx, 1, 30, "bank_transfer")
		require.NoError(t, err)
		require.NoError(t, svc.AwaitSettlement(ctx, tx.ID))

		// A second await finds no pending channel and reads the status
		assert.NoError(t, svc.AwaitSettlement(ctx, tx.ID))
	})

	t.Run("unknown transaction", func(t *testing.T) {
		svc, _ := newSettlementService(t, time.Millisecond)
		err := svc.AwaitSettlement(context.Background(), "TXN-missing")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("context cancellation", func(t *testing.T) {
		svc, _ := newSettlementService(t, time.Minute)
		ctx := context.Background()
		payWorker(t, svc, 1, 100)

		tx, err := svc.ProcessWithdrawal(ctx, 1, 30, "bank_transfer")
		require.NoError(t, err)

		waitCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, svc.AwaitSettlement(waitCtx, tx.ID), context.DeadlineExceeded)
	})
}

func TestSettlementFailureRefunds(t *testing.T) {
	svc, store := newSettlementService(t, 25*time.Millisecond)
	ctx := context.Background()
	payWorker(t, svc, 1, 100) // balance 85

	tx, err := svc.ProcessWithdrawal(ctx, 1, 30, "bank_transfer")
	require.NoError(t, err)
	assert.InDelta(t, 55.0, svc.UserEarnings(1).AvailableBalance, 1e-9)

	revenueBefore := svc.PlatformRevenue()

	// Make the settlement save fail
	store.mu.Lock()
	store.failNext = true
	store.mu.Unlock()

	assert.ErrorIs(t, svc.AwaitSettlement(ctx, tx.ID), ErrSettlementFailed)

	failed, err := svc.GetTransaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, failed.Status)
	assert.Nil(t, failed.CompletedAt)

	// The debit and the fee charge are reversed
	earnings := svc.UserEarnings(1)
	assert.InDelta(t, 85.0, earnings.AvailableBalance, 1e-9)
	assert.Zero(t, earnings.TotalWithdrawn)
	assert.Zero(t, earnings.TotalFeesPaid)

	revenue := svc.PlatformRevenue()
	assert.InDelta(t, revenueBefore.WithdrawalFeeRevenue-failed.Fees, revenue.WithdrawalFeeRevenue, 1e-9)
	assert.InDelta(t, revenueBefore.TotalRevenue-failed.Fees, revenue.TotalRevenue, 1e-9)
}

func TestSettlementIsMonotonic(t *testing.T) {
	svc, _ := newSettlementService(t, time.Millisecond)
	ctx := context.Background()
	payWorker(t, svc, 1, 100)

	tx, err := svc.ProcessWithdrawal(ctx, 1, 30, "bank_transfer")
	require.NoError(t, err)
	require.NoError(t, svc.AwaitSettlement(ctx, tx.ID))

	first, err := svc.GetTransaction(tx.ID)
	require.NoError(t, err)

	// Settling a completed withdrawal again is a no-op
	require.NoError(t, svc.settleWithdrawal(ctx, tx.ID))

	second, err := svc.GetTransaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.CompletedAt, second.CompletedAt)

	assert.ErrorIs(t, svc.settleWithdrawal(ctx, "TXN-missing"), ErrTransactionNotFound)
}
