package ledger

import (
	"context"
	"testing"

	"gigdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	svc, err := New(context.Background(), store, models.DefaultFeeStructure, Config{SettlementDelay: 1})
	require.NoError(t, err)
	return svc, store
}

func TestCalculateJobPostingCost(t *testing.T) {
	svc, store := newTestService(t)

	tests := []struct {
		name      string
		payAmount float64
		workers   int
		featured  bool
		urgent    bool
		wantTotal float64
		wantEst   float64
	}{
		{
			name:      "plain posting",
			payAmount: 50,
			workers:   10,
			wantTotal: 5,
			wantEst:   80, // 5 + 50*10*15%
		},
		{
			name:      "featured",
			payAmount: 50,
			workers:   10,
			featured:  true,
			wantTotal: 15,
			wantEst:   90,
		},
		{
			name:      "featured and urgent",
			payAmount: 100,
			workers:   2,
			featured:  true,
			urgent:    true,
			wantTotal: 20,
			wantEst:   50, // 20 + 100*2*15%
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := svc.CalculateJobPostingCost(tt.payAmount, tt.workers, tt.featured, tt.urgent)

			assert.Equal(t, tt.wantTotal, cost.TotalCost)
			assert.Equal(t, tt.wantEst, cost.EstimatedPlatformEarnings)
			assert.Equal(t, cost.BaseFee+cost.FeaturedFee+cost.UrgentFee, cost.TotalCost)
		})
	}

	t.Run("pure and repeatable", func(t *testing.T) {
		first := svc.CalculateJobPostingCost(75, 3, true, false)
		second := svc.CalculateJobPostingCost(75, 3, true, false)
		assert.Equal(t, first, second)
		assert.Zero(t, store.saves, "calculators must not persist anything")
	})

	t.Run("no input validation", func(t *testing.T) {
		// Invalid input is passed through, not rejected; callers
		// validate before quoting.
		cost := svc.CalculateJobPostingCost(-50, 2, false, false)
		assert.Equal(t, 5.0, cost.TotalCost)
		assert.Less(t, cost.EstimatedPlatformEarnings, cost.TotalCost)
	})
}

func TestCalculateWithdrawalFees(t *testing.T) {
	svc, store := newTestService(t)

	t.Run("standard breakdown", func(t *testing.T) {
		// 30 with fee 2.5 fixed + 2%: 2.5 + 0.6 = 3.1, net 26.9
		quote := svc.CalculateWithdrawalFees(30)

		assert.True(t, quote.CanWithdraw)
		assert.InDelta(t, 2.5, quote.FixedFee, 1e-9)
		assert.InDelta(t, 0.6, quote.PercentageFee, 1e-9)
		assert.InDelta(t, 3.1, quote.TotalFees, 1e-9)
		assert.InDelta(t, 26.9, quote.NetAmount, 1e-9)
		assert.InDelta(t, quote.NetAmount, 30-quote.FixedFee-quote.PercentageFee, 1e-9)
	})

	t.Run("below minimum leaves fees untouched", func(t *testing.T) {
		quote := svc.CalculateWithdrawalFees(10)

		assert.False(t, quote.CanWithdraw)
		assert.Contains(t, quote.Reason, "minimum withdrawal")
		assert.Contains(t, quote.Reason, "25.00")
		assert.Zero(t, quote.FixedFee)
		assert.Zero(t, quote.PercentageFee)
		assert.Zero(t, quote.TotalFees)
		assert.Zero(t, quote.NetAmount)
	})

	t.Run("exactly at minimum", func(t *testing.T) {
		quote := svc.CalculateWithdrawalFees(25)
		assert.True(t, quote.CanWithdraw)
		assert.InDelta(t, 3.0, quote.TotalFees, 1e-9) // 2.5 + 0.5
		assert.InDelta(t, 22.0, quote.NetAmount, 1e-9)
	})

	t.Run("fees can swallow the amount", func(t *testing.T) {
		// A fee structure where the fixed fee exceeds small amounts
		store := newMemStore()
		fees := models.DefaultFeeStructure
		fees.MinimumWithdrawal = 1
		fees.WithdrawalFee = 5
		svc, err := New(context.Background(), store, fees, Config{SettlementDelay: 1})
		require.NoError(t, err)

		quote := svc.CalculateWithdrawalFees(4)
		assert.False(t, quote.CanWithdraw)
		assert.Equal(t, "amount too small after fees", quote.Reason)
		assert.Zero(t, quote.NetAmount)
	})

	t.Run("repeatable and side-effect free", func(t *testing.T) {
		first := svc.CalculateWithdrawalFees(100)
		second := svc.CalculateWithdrawalFees(100)
		assert.Equal(t, first, second)
		assert.Zero(t, store.saves)
	})
}

func TestFeeStructureValidation(t *testing.T) {
	store := newMemStore()

	t.Run("percentage out of range", func(t *testing.T) {
		fees := models.DefaultFeeStructure
		fees.PlatformCommission = 150
		_, err := New(context.Background(), store, fees, Config{})
		assert.ErrorIs(t, err, models.ErrInvalidFeeStructure)
	})

	t.Run("negative currency amount", func(t *testing.T) {
		fees := models.DefaultFeeStructure
		fees.JobPostingFee = -1
		_, err := New(context.Background(), store, fees, Config{})
		assert.ErrorIs(t, err, models.ErrInvalidFeeStructure)
	})
}
