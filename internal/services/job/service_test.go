package job

import (
	"context"
	"sync"
	"testing"

	"gigdesk/internal/models"
	"gigdesk/internal/repositories"
	"gigdesk/internal/services/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJobRepo struct {
	mock.Mock
}

func (m *mockJobRepo) Create(job *models.Job) error {
	args := m.Called(job)
	return args.Error(0)
}

func (m *mockJobRepo) GetByID(id uint) (*models.Job, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobRepo) Update(job *models.Job) error {
	args := m.Called(job)
	return args.Error(0)
}

func (m *mockJobRepo) List(filter repositories.JobFilter, limit, offset int) ([]models.Job, int64, error) {
	args := m.Called(filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Job), args.Get(1).(int64), args.Error(2)
}

// memStore keeps ledger state in memory for tests.
type memStore struct {
	mu    sync.Mutex
	state *models.LedgerState
}

func (m *memStore) Load(ctx context.Context) (*models.LedgerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return models.NewLedgerState(), nil
	}
	return m.state, nil
}

func (m *memStore) Save(ctx context.Context, state *models.LedgerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	return nil
}

func newLedger(t *testing.T) *ledger.Service {
	t.Helper()
	svc, err := ledger.New(context.Background(), &memStore{}, models.DefaultFeeStructure, ledger.Config{SettlementDelay: 1})
	require.NoError(t, err)
	return svc
}

func TestQuotePosting(t *testing.T) {
	svc := NewService(new(mockJobRepo), newLedger(t), nil)

	t.Run("valid input", func(t *testing.T) {
		costs, err := svc.QuotePosting(models.CreateJobInput{
			Title: "Street survey", PayAmount: 50, MaxWorkers: 10, Featured: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 15.0, costs.TotalCost)
		assert.Equal(t, 90.0, costs.EstimatedPlatformEarnings)
	})

	tests := []struct {
		name    string
		input   models.CreateJobInput
		wantErr error
	}{
		{"missing title", models.CreateJobInput{PayAmount: 10, MaxWorkers: 1}, ErrTitleRequired},
		{"zero pay", models.CreateJobInput{Title: "x", PayAmount: 0, MaxWorkers: 1}, ErrInvalidPayAmount},
		{"negative pay", models.CreateJobInput{Title: "x", PayAmount: -5, MaxWorkers: 1}, ErrInvalidPayAmount},
		{"zero workers", models.CreateJobInput{Title: "x", PayAmount: 10, MaxWorkers: 0}, ErrInvalidMaxWorkers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.QuotePosting(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPostJob(t *testing.T) {
	repo := new(mockJobRepo)
	ledgerSvc := newLedger(t)
	svc := NewService(repo, ledgerSvc, nil)

	repo.On("Create", mock.AnythingOfType("*models.Job")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Job).ID = 11
	}).Return(nil)

	input := models.CreateJobInput{
		Title: "Doorstep survey", PayAmount: 40, MaxWorkers: 5, Urgent: true,
	}
	job, tx, err := svc.PostJob(context.Background(), 3, input)
	require.NoError(t, err)

	assert.Equal(t, uint(3), job.EmployerID)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.Equal(t, 10.0, job.PostingCost) // 5 base + 5 urgent

	require.NotNil(t, tx.JobID)
	assert.Equal(t, uint(11), *tx.JobID)
	assert.Equal(t, models.TransactionTypeJobPosting, tx.Type)

	assert.Equal(t, 10.0, ledgerSvc.PlatformRevenue().JobPostingRevenue)
	repo.AssertExpectations(t)
}

func TestPostJob_InvalidInputChargesNothing(t *testing.T) {
	repo := new(mockJobRepo)
	ledgerSvc := newLedger(t)
	svc := NewService(repo, ledgerSvc, nil)

	_, _, err := svc.PostJob(context.Background(), 3, models.CreateJobInput{Title: "x", PayAmount: -1, MaxWorkers: 1})
	assert.ErrorIs(t, err, ErrInvalidPayAmount)

	assert.Zero(t, ledgerSvc.PlatformRevenue().TotalRevenue)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCloseJob(t *testing.T) {
	t.Run("owner closes", func(t *testing.T) {
		repo := new(mockJobRepo)
		svc := NewService(repo, newLedger(t), nil)

		repo.On("GetByID", uint(11)).Return(&models.Job{EmployerID: 3, Status: models.JobStatusOpen}, nil)
		repo.On("Update", mock.MatchedBy(func(j *models.Job) bool {
			return j.Status == models.JobStatusClosed
		})).Return(nil)

		require.NoError(t, svc.CloseJob(context.Background(), 3, 11))
		repo.AssertExpectations(t)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		repo := new(mockJobRepo)
		svc := NewService(repo, newLedger(t), nil)

		repo.On("GetByID", uint(11)).Return(&models.Job{EmployerID: 3, Status: models.JobStatusOpen}, nil)

		assert.ErrorIs(t, svc.CloseJob(context.Background(), 4, 11), ErrNotJobOwner)
		repo.AssertNotCalled(t, "Update", mock.Anything)
	})
}

func TestListJobs_NoCache(t *testing.T) {
	repo := new(mockJobRepo)
	svc := NewService(repo, newLedger(t), nil)

	filter := repositories.JobFilter{Status: models.JobStatusOpen}
	repo.On("List", filter, 20, 0).Return([]models.Job{{Title: "a"}, {Title: "b"}}, int64(2), nil)

	jobs, total, err := svc.ListJobs(context.Background(), filter, 20, 0)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, int64(2), total)
}
