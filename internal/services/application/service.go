package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigdesk/internal/logger"
	"gigdesk/internal/models"
	"gigdesk/internal/repositories"
	"gigdesk/internal/services/ledger"
)

var (
	ErrAccountNotActivated = errors.New("account must be activated before applying")
	ErrAlreadyApplied      = errors.New("already applied to this job")
	ErrJobNotOpen          = errors.New("job is not open")
	ErrJobFull             = errors.New("job already has the maximum number of workers")
	ErrNotJobOwner         = errors.New("job does not belong to this employer")
	ErrInvalidTransition   = errors.New("invalid application status transition")
)

type Service interface {
	Apply(ctx context.Context, workerID, jobID uint, message string) (*models.Application, error)
	Accept(ctx context.Context, employerID, applicationID uint) (*models.Application, error)
	Reject(ctx context.Context, employerID, applicationID uint) (*models.Application, error)
	Complete(ctx context.Context, employerID, applicationID uint) (*models.Application, *ledger.PaymentResult, error)
	ListForJob(employerID, jobID uint) ([]models.Application, error)
	ListForWorker(workerID uint, limit, offset int) ([]models.Application, int64, error)
}

type service struct {
	apps   repositories.ApplicationRepository
	jobs   repositories.JobRepository
	users  repositories.UserRepository
	ledger *ledger.Service
}

func NewService(apps repositories.ApplicationRepository, jobs repositories.JobRepository, users repositories.UserRepository, ledgerSvc *ledger.Service) Service {
	return &service{
		apps:   apps,
		jobs:   jobs,
		users:  users,
		ledger: ledgerSvc,
	}
}

// Apply records a worker's application. Workers must have activated
// their account, and a job only takes one application per worker.
func (s *service) Apply(ctx context.Context, workerID, jobID uint, message string) (*models.Application, error) {
	worker, err := s.users.GetByID(workerID)
	if err != nil {
		return nil, err
	}
	if !worker.Activated {
		return nil, ErrAccountNotActivated
	}

	job, err := s.jobs.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, ErrJobNotOpen
	}

	if existing, _ := s.apps.GetByJobAndWorker(jobID, workerID); existing != nil {
		return nil, ErrAlreadyApplied
	}

	app := &models.Application{
		JobID:    jobID,
		WorkerID: workerID,
		Status:   models.ApplicationStatusApplied,
		Message:  message,
	}
	if err := s.apps.Create(app); err != nil {
		return nil, err
	}
	return app, nil
}

// Accept moves an application to accepted. When the accepted count
// reaches the job's worker limit the job is marked filled.
func (s *service) Accept(ctx context.Context, employerID, applicationID uint) (*models.Application, error) {
	app, job, err := s.getForEmployer(employerID, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusApplied {
		return nil, ErrInvalidTransition
	}

	accepted, err := s.apps.CountAccepted(app.JobID)
	if err != nil {
		return nil, err
	}
	if accepted >= int64(job.MaxWorkers) {
		return nil, ErrJobFull
	}

	now := time.Now()
	app.Status = models.ApplicationStatusAccepted
	app.AcceptedAt = &now
	if err := s.apps.Update(app); err != nil {
		return nil, err
	}

	if accepted+1 >= int64(job.MaxWorkers) && job.Status == models.JobStatusOpen {
		job.Status = models.JobStatusFilled
		if err := s.jobs.Update(job); err != nil {
			logger.L().WithError(err).WithField("job_id", job.ID).
				Error("failed to mark job filled")
		}
	}
	return app, nil
}

func (s *service) Reject(ctx context.Context, employerID, applicationID uint) (*models.Application, error) {
	app, _, err := s.getForEmployer(employerID, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusApplied {
		return nil, ErrInvalidTransition
	}

	app.Status = models.ApplicationStatusRejected
	if err := s.apps.Update(app); err != nil {
		return nil, err
	}
	return app, nil
}

// Complete marks accepted work as done and pays the worker through the
// ledger. The payout happens first; the status flip is best-effort
// after the money has moved.
func (s *service) Complete(ctx context.Context, employerID, applicationID uint) (*models.Application, *ledger.PaymentResult, error) {
	app, job, err := s.getForEmployer(employerID, applicationID)
	if err != nil {
		return nil, nil, err
	}
	if app.Status != models.ApplicationStatusAccepted {
		return nil, nil, ErrInvalidTransition
	}

	jobID := job.ID
	result, err := s.ledger.ProcessJobPayment(ctx, app.WorkerID, &jobID,
		job.PayAmount, fmt.Sprintf("Payment for job: %s", job.Title))
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	app.Status = models.ApplicationStatusCompleted
	app.CompletedAt = &now
	if err := s.apps.Update(app); err != nil {
		logger.L().WithError(err).WithFields(map[string]interface{}{
			"application_id": app.ID,
			"transaction_id": result.Transaction.ID,
		}).Error("worker paid but application update failed")
		return nil, result, err
	}
	return app, result, nil
}

func (s *service) ListForJob(employerID, jobID uint) ([]models.Application, error) {
	job, err := s.jobs.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != employerID {
		return nil, ErrNotJobOwner
	}
	return s.apps.ListByJob(jobID)
}

func (s *service) ListForWorker(workerID uint, limit, offset int) ([]models.Application, int64, error) {
	return s.apps.ListByWorker(workerID, limit, offset)
}

func (s *service) getForEmployer(employerID, applicationID uint) (*models.Application, *models.Job, error) {
	app, err := s.apps.GetByID(applicationID)
	if err != nil {
		return nil, nil, err
	}
	job, err := s.jobs.GetByID(app.JobID)
	if err != nil {
		return nil, nil, err
	}
	if job.EmployerID != employerID {
		return nil, nil, ErrNotJobOwner
	}
	return app, job, nil
}
