package application

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

type mockAppRepo struct {
	mock.Mock
}

func (m *mockAppRepo) Create(app *models.Application) error {
	args := m.Called(app)
	return args.Error(0)
}

func (m *mockAppRepo) GetByID(id uint) (*models.Application, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *mockAppRepo) GetByJobAndWorker(jobID, workerID uint) (*models.Application, error) {
	args := m.Called(jobID, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *mockAppRepo) Update(app *models.Application) error {
	args := m.Called(app)
	return args.Error(0)
}

func (m *mockAppRepo) ListByJob(jobID uint) ([]models.Application, error) {
	args := m.Called(jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

func (m *mockAppRepo) ListByWorker(workerID uint, limit, offset int) ([]models.Application, int64, error) {
	args := m.Called(workerID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Application), args.Get(1).(int64), args.Error(2)
}

func (m *mockAppRepo) CountAccepted(jobID uint) (int64, error) {
	args := m.Called(jobID)
	return args.Get(0).(int64), args.Error(1)
}

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

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByPhone(phone string) (*models.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockUserRepo) List(limit, offset int) ([]models.User, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) IncrementTokenVersion(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

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

type fixture struct {
	apps   *mockAppRepo
	jobs   *mockJobRepo
	users  *mockUserRepo
	ledger *ledger.Service
	svc    Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		apps:  new(mockAppRepo),
		jobs:  new(mockJobRepo),
		users: new(mockUserRepo),
	}
	ledgerSvc, err := ledger.New(context.Background(), &memStore{}, models.DefaultFeeStructure, ledger.Config{SettlementDelay: 1})
	require.NoError(t, err)
	f.ledger = ledgerSvc
	f.svc = NewService(f.apps, f.jobs, f.users, f.ledger)
	return f
}

func TestApply(t *testing.T) {
	openJob := func() *models.Job {
		return &models.Job{EmployerID: 2, Title: "Survey", PayAmount: 40, MaxWorkers: 2, Status: models.JobStatusOpen}
	}

	t.Run("activated worker applies", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetByID", uint(1)).Return(&models.User{Role: models.RoleWorker, Activated: true}, nil)
		f.jobs.On("GetByID", uint(5)).Return(openJob(), nil)
		f.apps.On("GetByJobAndWorker", uint(5), uint(1)).Return(nil, repositories.ErrApplicationNotFound)
		f.apps.On("Create", mock.AnythingOfType("*models.Application")).Return(nil)

		app, err := f.svc.Apply(context.Background(), 1, 5, "pick me")
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusApplied, app.Status)
		assert.Equal(t, "pick me", app.Message)
		f.apps.AssertExpectations(t)
	})

	t.Run("not activated", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetByID", uint(1)).Return(&models.User{Role: models.RoleWorker}, nil)

		_, err := f.svc.Apply(context.Background(), 1, 5, "")
		assert.ErrorIs(t, err, ErrAccountNotActivated)
		f.apps.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("duplicate application", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetByID", uint(1)).Return(&models.User{Activated: true}, nil)
		f.jobs.On("GetByID", uint(5)).Return(openJob(), nil)
		f.apps.On("GetByJobAndWorker", uint(5), uint(1)).Return(&models.Application{}, nil)

		_, err := f.svc.Apply(context.Background(), 1, 5, "")
		assert.ErrorIs(t, err, ErrAlreadyApplied)
	})

	t.Run("closed job", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetByID", uint(1)).Return(&models.User{Activated: true}, nil)
		f.jobs.On("GetByID", uint(5)).Return(&models.Job{Status: models.JobStatusClosed}, nil)

		_, err := f.svc.Apply(context.Background(), 1, 5, "")
		assert.ErrorIs(t, err, ErrJobNotOpen)
	})
}

func TestAccept(t *testing.T) {
	t.Run("accepting the last slot fills the job", func(t *testing.T) {
		f := newFixture(t)
		job := &models.Job{EmployerID: 2, MaxWorkers: 2, Status: models.JobStatusOpen}
		app := &models.Application{JobID: 5, WorkerID: 1, Status: models.ApplicationStatusApplied}

		f.apps.On("GetByID", uint(9)).Return(app, nil)
		f.jobs.On("GetByID", app.JobID).Return(job, nil)
		f.apps.On("CountAccepted", app.JobID).Return(int64(1), nil)
		f.apps.On("Update", mock.MatchedBy(func(a *models.Application) bool {
			return a.Status == models.ApplicationStatusAccepted && a.AcceptedAt != nil
		})).Return(nil)
		f.jobs.On("Update", mock.MatchedBy(func(j *models.Job) bool {
			return j.Status == models.JobStatusFilled
		})).Return(nil)

		out, err := f.svc.Accept(context.Background(), 2, 9)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusAccepted, out.Status)
		f.jobs.AssertExpectations(t)
	})

	t.Run("job full", func(t *testing.T) {
		f := newFixture(t)
		job := &models.Job{EmployerID: 2, MaxWorkers: 1, Status: models.JobStatusFilled}
		app := &models.Application{JobID: 5, Status: models.ApplicationStatusApplied}

		f.apps.On("GetByID", uint(9)).Return(app, nil)
		f.jobs.On("GetByID", app.JobID).Return(job, nil)
		f.apps.On("CountAccepted", app.JobID).Return(int64(1), nil)

		_, err := f.svc.Accept(context.Background(), 2, 9)
		assert.ErrorIs(t, err, ErrJobFull)
	})

	t.Run("wrong employer", func(t *testing.T) {
		f := newFixture(t)
		f.apps.On("GetByID", uint(9)).Return(&models.Application{JobID: 5}, nil)
		f.jobs.On("GetByID", uint(5)).Return(&models.Job{EmployerID: 2}, nil)

		_, err := f.svc.Accept(context.Background(), 3, 9)
		assert.ErrorIs(t, err, ErrNotJobOwner)
	})
}

func TestComplete(t *testing.T) {
	t.Run("pays the worker through the ledger", func(t *testing.T) {
		f := newFixture(t)
		job := &models.Job{EmployerID: 2, Title: "Survey", PayAmount: 100, MaxWorkers: 1}
		job.ID = 5
		app := &models.Application{JobID: 5, WorkerID: 1, Status: models.ApplicationStatusAccepted}

		f.apps.On("GetByID", uint(9)).Return(app, nil)
		f.jobs.On("GetByID", uint(5)).Return(job, nil)
		f.apps.On("Update", mock.MatchedBy(func(a *models.Application) bool {
			return a.Status == models.ApplicationStatusCompleted && a.CompletedAt != nil
		})).Return(nil)

		out, result, err := f.svc.Complete(context.Background(), 2, 9)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusCompleted, out.Status)
		assert.Equal(t, 85.0, result.WorkerNet)

		// The worker's ledger balance reflects the payout
		assert.Equal(t, 85.0, f.ledger.UserEarnings(1).AvailableBalance)
		assert.Equal(t, 15.0, f.ledger.PlatformRevenue().CommissionRevenue)
	})

	t.Run("only accepted work can complete", func(t *testing.T) {
		f := newFixture(t)
		f.apps.On("GetByID", uint(9)).Return(&models.Application{JobID: 5, Status: models.ApplicationStatusApplied}, nil)
		f.jobs.On("GetByID", uint(5)).Return(&models.Job{EmployerID: 2}, nil)

		_, _, err := f.svc.Complete(context.Background(), 2, 9)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Zero(t, f.ledger.PlatformRevenue().TotalRevenue)
	})
}
