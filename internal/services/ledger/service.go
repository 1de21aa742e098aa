package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gigdesk/internal/models"

	"github.com/google/uuid"
)

// Service is the fee ledger. One instance is constructed at startup and
// injected into every caller; all state access goes through its mutex.
type Service struct {
	mu        sync.RWMutex
	fees      models.FeeStructure
	store     Store
	state     *models.LedgerState
	observers *observerRegistry
	settler   *settler
	now       func() time.Time
}

// New creates a ledger service, loading any previously persisted state
// from the store.
func New(ctx context.Context, store Store, fees models.FeeStructure, config Config) (*Service, error) {
	if store == nil {
		panic("store is required")
	}
	if err := fees.Validate(); err != nil {
		return nil, err
	}
	if config.SettlementDelay == 0 {
		config.SettlementDelay = DefaultSettlementDelay
	}

	state, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger state: %w", err)
	}

	s := &Service{
		fees:      fees,
		store:     store,
		state:     state,
		observers: newObserverRegistry(),
		now:       time.Now,
	}
	s.settler = newSettler(s, config.SettlementDelay)
	return s, nil
}

// Subscribe registers a change listener and returns its unsubscribe
// handle. Listeners are called, without payload, after every mutation.
func (s *Service) Subscribe(fn func()) func() {
	return s.observers.subscribe(fn)
}

// ProcessJobPayment credits a worker for a completed job: the platform
// commission is deducted from the gross amount and the remainder lands
// on the worker's available balance. The transaction completes
// immediately; no escrow is modeled.
func (s *Service) ProcessJobPayment(ctx context.Context, workerID uint, jobID *uint, grossAmount float64, description string) (*PaymentResult, error) {
	platformFee := roundCents(grossAmount * s.fees.PlatformCommission / 100)
	workerNet := roundCents(grossAmount - platformFee)

	s.mu.Lock()
	snapshot := cloneState(s.state)

	now := s.now()
	tx := &models.TransactionRecord{
		ID:          newTransactionID(),
		Type:        models.TransactionTypeJobPayment,
		UserID:      workerID,
		Amount:      grossAmount,
		Fees:        platformFee,
		NetAmount:   workerNet,
		Status:      models.TransactionStatusCompleted,
		Description: description,
		JobID:       jobID,
		CreatedAt:   now,
		CompletedAt: &now,
	}

	s.state.Transactions = append(s.state.Transactions, tx)
	s.updateUserEarnings(workerID, workerNet, 0)
	s.updatePlatformRevenue(RevenueSourceCommission, platformFee)

	if err := s.store.Save(ctx, s.state); err != nil {
		s.state = snapshot
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to persist job payment: %w", err)
	}
	result := &PaymentResult{
		Transaction: cloneTransaction(tx),
		WorkerNet:   workerNet,
		PlatformFee: platformFee,
	}
	s.mu.Unlock()

	s.observers.notify()
	return result, nil
}

// ProcessWithdrawal debits the user's available balance and records a
// pending withdrawal. Settlement happens asynchronously after the
// configured delay; use AwaitSettlement or re-query to observe it.
func (s *Service) ProcessWithdrawal(ctx context.Context, userID uint, amount float64, method string) (*models.TransactionRecord, error) {
	s.mu.Lock()

	earnings, ok := s.state.Earnings[userID]
	if !ok || earnings.AvailableBalance < amount {
		s.mu.Unlock()
		return nil, ErrInsufficientBalance
	}

	quote := s.CalculateWithdrawalFees(amount)
	if !quote.CanWithdraw {
		s.mu.Unlock()
		if amount < s.fees.MinimumWithdrawal {
			return nil, fmt.Errorf("%w: %s", ErrBelowMinimumWithdrawal, quote.Reason)
		}
		return nil, ErrAmountTooSmall
	}

	snapshot := cloneState(s.state)

	tx := &models.TransactionRecord{
		ID:          newTransactionID(),
		Type:        models.TransactionTypeWithdrawal,
		UserID:      userID,
		Amount:      amount,
		Fees:        quote.TotalFees,
		NetAmount:   quote.NetAmount,
		Status:      models.TransactionStatusPending,
		Description: fmt.Sprintf("Withdrawal via %s", method),
		Metadata:    models.NewJSON(map[string]interface{}{"method": method}),
		CreatedAt:   s.now(),
	}

	s.state.Transactions = append(s.state.Transactions, tx)
	s.updateUserEarnings(userID, -amount, quote.TotalFees)
	s.updatePlatformRevenue(RevenueSourceWithdrawalFee, quote.TotalFees)

	if err := s.store.Save(ctx, s.state); err != nil {
		s.state = snapshot
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to persist withdrawal: %w", err)
	}
	out := cloneTransaction(tx)
	s.mu.Unlock()

	s.observers.notify()
	s.settler.schedule(out.ID)
	return out, nil
}

// ProcessJobPosting charges an employer for publishing a job. The full
// posting cost is platform revenue; no fee deduction and no employer
// balance is modeled, so the charge always succeeds.
func (s *Service) ProcessJobPosting(ctx context.Context, employerID uint, jobID *uint, input models.CreateJobInput) (*models.TransactionRecord, JobPostingCost, error) {
	costs := s.CalculateJobPostingCost(input.PayAmount, input.MaxWorkers, input.Featured, input.Urgent)

	s.mu.Lock()
	snapshot := cloneState(s.state)

	now := s.now()
	tx := &models.TransactionRecord{
		ID:          newTransactionID(),
		Type:        models.TransactionTypeJobPosting,
		UserID:      employerID,
		Amount:      costs.TotalCost,
		Fees:        0,
		NetAmount:   costs.TotalCost,
		Status:      models.TransactionStatusCompleted,
		Description: fmt.Sprintf("Job posting: %s", input.Title),
		JobID:       jobID,
		CreatedAt:   now,
		CompletedAt: &now,
	}

	s.state.Transactions = append(s.state.Transactions, tx)
	s.updatePlatformRevenue(RevenueSourceJobPosting, costs.TotalCost)

	if err := s.store.Save(ctx, s.state); err != nil {
		s.state = snapshot
		s.mu.Unlock()
		return nil, costs, fmt.Errorf("failed to persist job posting: %w", err)
	}
	out := cloneTransaction(tx)
	s.mu.Unlock()

	s.observers.notify()
	return out, costs, nil
}

// ProcessSubscription charges a premium plan for the given role and
// records the amount as subscription revenue.
func (s *Service) ProcessSubscription(ctx context.Context, userID uint, role string) (*models.TransactionRecord, error) {
	var amount float64
	switch role {
	case models.RoleEmployer:
		amount = s.fees.EmployerPremiumMonthly
	case models.RoleWorker:
		amount = s.fees.WorkerPremiumMonthly
	default:
		return nil, ErrInvalidSubscriptionRole
	}

	s.mu.Lock()
	snapshot := cloneState(s.state)

	now := s.now()
	tx := &models.TransactionRecord{
		ID:          newTransactionID(),
		Type:        models.TransactionTypeSubscription,
		UserID:      userID,
		Amount:      amount,
		Fees:        0,
		NetAmount:   amount,
		Status:      models.TransactionStatusCompleted,
		Description: fmt.Sprintf("Premium subscription (%s)", role),
		CreatedAt:   now,
		CompletedAt: &now,
	}

	s.state.Transactions = append(s.state.Transactions, tx)
	s.updatePlatformRevenue(RevenueSourceSubscription, amount)

	if err := s.store.Save(ctx, s.state); err != nil {
		s.state = snapshot
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to persist subscription: %w", err)
	}
	out := cloneTransaction(tx)
	s.mu.Unlock()

	s.observers.notify()
	return out, nil
}

// updateUserEarnings applies a net balance change and a fee charge to a
// user's snapshot. Positive net is an earning (lifetime total and
// available balance both grow); negative net is a withdrawal debit.
// Callers must hold the write lock.
func (s *Service) updateUserEarnings(userID uint, netChange, feesChange float64) {
	earnings, ok := s.state.Earnings[userID]
	if !ok {
		earnings = &models.UserEarnings{UserID: userID}
		s.state.Earnings[userID] = earnings
	}

	if netChange > 0 {
		earnings.TotalEarned = roundCents(earnings.TotalEarned + netChange)
		earnings.AvailableBalance = roundCents(earnings.AvailableBalance + netChange)
	} else if netChange < 0 {
		earnings.AvailableBalance = roundCents(earnings.AvailableBalance + netChange)
		earnings.TotalWithdrawn = roundCents(earnings.TotalWithdrawn - netChange)
	}
	if feesChange > 0 {
		earnings.TotalFeesPaid = roundCents(earnings.TotalFeesPaid + feesChange)
	}
	earnings.LastUpdated = s.now()
}

// updatePlatformRevenue credits a revenue source and the matching
// monthly and daily buckets. Callers must hold the write lock.
func (s *Service) updatePlatformRevenue(source string, amount float64) {
	rev := s.state.Revenue

	switch source {
	case RevenueSourceCommission:
		rev.CommissionRevenue = roundCents(rev.CommissionRevenue + amount)
	case RevenueSourceWithdrawalFee:
		rev.WithdrawalFeeRevenue = roundCents(rev.WithdrawalFeeRevenue + amount)
	case RevenueSourceJobPosting:
		rev.JobPostingRevenue = roundCents(rev.JobPostingRevenue + amount)
	case RevenueSourceSubscription:
		rev.SubscriptionRevenue = roundCents(rev.SubscriptionRevenue + amount)
	case RevenueSourcePaymentProcessing:
		rev.PaymentProcessingRevenue = roundCents(rev.PaymentProcessingRevenue + amount)
	}
	rev.TotalRevenue = roundCents(rev.TotalRevenue + amount)

	now := s.now()
	monthKey := now.Format(MonthKeyLayout)
	dayKey := now.Format(DayKeyLayout)
	rev.Monthly[monthKey] = roundCents(rev.Monthly[monthKey] + amount)
	rev.Daily[dayKey] = roundCents(rev.Daily[dayKey] + amount)
}

// FeeStructure returns a copy of the fee configuration.
func (s *Service) FeeStructure() models.FeeStructure {
	return s.fees
}

// UserEarnings returns a copy of the user's earnings snapshot, or a
// zeroed snapshot for unknown users.
func (s *Service) UserEarnings(userID uint) models.UserEarnings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if earnings, ok := s.state.Earnings[userID]; ok {
		return *earnings
	}
	return models.UserEarnings{UserID: userID}
}

// UserTransactions returns the user's transactions, newest first.
func (s *Service) UserTransactions(userID uint) []models.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TransactionRecord, 0)
	// The log is append-only and chronological; walk it backwards.
	for i := len(s.state.Transactions) - 1; i >= 0; i-- {
		if tx := s.state.Transactions[i]; tx.UserID == userID {
			out = append(out, *cloneTransaction(tx))
		}
	}
	return out
}

// AllTransactions returns every transaction, newest first.
func (s *Service) AllTransactions() []models.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TransactionRecord, 0, len(s.state.Transactions))
	for i := len(s.state.Transactions) - 1; i >= 0; i-- {
		out = append(out, *cloneTransaction(s.state.Transactions[i]))
	}
	return out
}

// GetTransaction returns a single transaction by id.
func (s *Service) GetTransaction(id string) (models.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.state.Transactions {
		if tx.ID == id {
			return *cloneTransaction(tx), nil
		}
	}
	return models.TransactionRecord{}, ErrTransactionNotFound
}

// PlatformRevenue returns a deep copy of the revenue aggregate.
func (s *Service) PlatformRevenue() models.PlatformRevenue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *cloneRevenue(s.state.Revenue)
}

// newTransactionID builds a practically unique transaction identifier.
func newTransactionID() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func cloneTransaction(tx *models.TransactionRecord) *models.TransactionRecord {
	out := *tx
	if tx.CompletedAt != nil {
		t := *tx.CompletedAt
		out.CompletedAt = &t
	}
	if tx.JobID != nil {
		id := *tx.JobID
		out.JobID = &id
	}
	if tx.Metadata != nil {
		meta := make(models.JSON, len(tx.Metadata))
		for k, v := range tx.Metadata {
			meta[k] = v
		}
		out.Metadata = meta
	}
	return &out
}

func cloneRevenue(rev *models.PlatformRevenue) *models.PlatformRevenue {
	out := *rev
	out.Monthly = make(map[string]float64, len(rev.Monthly))
	for k, v := range rev.Monthly {
		out.Monthly[k] = v
	}
	out.Daily = make(map[string]float64, len(rev.Daily))
	for k, v := range rev.Daily {
		out.Daily[k] = v
	}
	return &out
}

func cloneState(state *models.LedgerState) *models.LedgerState {
	out := &models.LedgerState{
		Transactions: make([]*models.TransactionRecord, len(state.Transactions)),
		Earnings:     make(map[uint]*models.UserEarnings, len(state.Earnings)),
		Revenue:      cloneRevenue(state.Revenue),
	}
	for i, tx := range state.Transactions {
		out.Transactions[i] = cloneTransaction(tx)
	}
	for id, e := range state.Earnings {
		copied := *e
		out.Earnings[id] = &copied
	}
	return out
}
