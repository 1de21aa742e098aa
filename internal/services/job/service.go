package job

import (
	"context"
	"errors"
	"fmt"

	"gigdesk/internal/logger"
	"gigdesk/internal/models"
	"gigdesk/internal/repositories"
	"gigdesk/internal/repositories/cache"
	"gigdesk/internal/services/ledger"
)

var (
	ErrInvalidPayAmount  = errors.New("pay amount must be greater than zero")
	ErrInvalidMaxWorkers = errors.New("max workers must be at least 1")
	ErrTitleRequired     = errors.New("title is required")
	ErrNotJobOwner       = errors.New("job does not belong to this employer")
)

type Service interface {
	QuotePosting(input models.CreateJobInput) (ledger.JobPostingCost, error)
	PostJob(ctx context.Context, employerID uint, input models.CreateJobInput) (*models.Job, *models.TransactionRecord, error)
	GetJob(id uint) (*models.Job, error)
	ListJobs(ctx context.Context, filter repositories.JobFilter, limit, offset int) ([]models.Job, int64, error)
	CloseJob(ctx context.Context, employerID, jobID uint) error
}

type service struct {
	repo   repositories.JobRepository
	ledger *ledger.Service
	cache  *cache.CacheService
}

// NewService creates the job service. cache may be nil; listings then
// always hit the database.
func NewService(repo repositories.JobRepository, ledgerSvc *ledger.Service, cacheSvc *cache.CacheService) Service {
	return &service{
		repo:   repo,
		ledger: ledgerSvc,
		cache:  cacheSvc,
	}
}

func validateInput(input models.CreateJobInput) error {
	if input.Title == "" {
		return ErrTitleRequired
	}
	if input.PayAmount <= 0 {
		return ErrInvalidPayAmount
	}
	if input.MaxWorkers < 1 {
		return ErrInvalidMaxWorkers
	}
	return nil
}

// QuotePosting prices a posting without charging anything.
func (s *service) QuotePosting(input models.CreateJobInput) (ledger.JobPostingCost, error) {
	if err := validateInput(input); err != nil {
		return ledger.JobPostingCost{}, err
	}
	return s.ledger.CalculateJobPostingCost(input.PayAmount, input.MaxWorkers, input.Featured, input.Urgent), nil
}

// PostJob persists a job and charges the employer the posting cost.
func (s *service) PostJob(ctx context.Context, employerID uint, input models.CreateJobInput) (*models.Job, *models.TransactionRecord, error) {
	if err := validateInput(input); err != nil {
		return nil, nil, err
	}

	costs := s.ledger.CalculateJobPostingCost(input.PayAmount, input.MaxWorkers, input.Featured, input.Urgent)

	job := &models.Job{
		EmployerID:  employerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		PayAmount:   input.PayAmount,
		MaxWorkers:  input.MaxWorkers,
		Featured:    input.Featured,
		Urgent:      input.Urgent,
		Status:      models.JobStatusOpen,
		PostingCost: costs.TotalCost,
	}

	if err := s.repo.Create(job); err != nil {
		return nil, nil, err
	}

	jobID := job.ID
	tx, _, err := s.ledger.ProcessJobPosting(ctx, employerID, &jobID, input)
	if err != nil {
		// The job exists but the charge did not stick; take it off the
		// board rather than give away a free listing.
		job.Status = models.JobStatusClosed
		if updateErr := s.repo.Update(job); updateErr != nil {
			logger.L().WithError(updateErr).WithField("job_id", job.ID).
				Error("failed to close job after posting charge failure")
		}
		return nil, nil, fmt.Errorf("posting charge failed: %w", err)
	}

	s.invalidateListings(ctx)
	return job, tx, nil
}

func (s *service) GetJob(id uint) (*models.Job, error) {
	return s.repo.GetByID(id)
}

// ListJobs returns a page of jobs. The default open-jobs listing is
// served from cache when possible.
func (s *service) ListJobs(ctx context.Context, filter repositories.JobFilter, limit, offset int) ([]models.Job, int64, error) {
	cacheable := s.cache != nil && filter.EmployerID == 0

	var key string
	if cacheable {
		key = fmt.Sprintf("jobs:page:%s:%s:%t:%d:%d",
			filter.Status, filter.Category, filter.FeaturedOnly, limit, offset)
		if jobs, total, found, err := s.cache.GetJobPage(ctx, key); err == nil && found {
			return jobs, total, nil
		}
	}

	jobs, total, err := s.repo.List(filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		if err := s.cache.CacheJobPage(ctx, key, jobs, total); err != nil {
			logger.L().WithError(err).Debug("failed to cache job page")
		}
	}
	return jobs, total, nil
}

func (s *service) CloseJob(ctx context.Context, employerID, jobID uint) error {
	job, err := s.repo.GetByID(jobID)
	if err != nil {
		return err
	}
	if job.EmployerID != employerID {
		return ErrNotJobOwner
	}
	if job.Status == models.JobStatusClosed {
		return nil
	}

	job.Status = models.JobStatusClosed
	if err := s.repo.Update(job); err != nil {
		return err
	}

	s.invalidateListings(ctx)
	return nil
}

func (s *service) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateJobPages(ctx); err != nil {
		logger.L().WithError(err).Debug("failed to invalidate job listing cache")
	}
}
