package repositories

import (
	"gigdesk/internal/models"

	"gorm.io/gorm"
)

// JobFilter narrows job listings.
type JobFilter struct {
	Category     string
	FeaturedOnly bool
	Status       string
	EmployerID   uint
}

// JobRepository defines the job persistence surface.
type JobRepository interface {
	Create(job *models.Job) error
	GetByID(id uint) (*models.Job, error)
	Update(job *models.Job) error
	List(filter JobFilter, limit, offset int) ([]models.Job, int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new instance of JobRepository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(job *models.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *jobRepository) GetByID(id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.First(&job, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrJobNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &job, nil
}

func (r *jobRepository) Update(job *models.Job) error {
	if err := r.db.Save(job).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *jobRepository) List(filter JobFilter, limit, offset int) ([]models.Job, int64, error) {
	query := r.db.Model(&models.Job{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EmployerID != 0 {
		query = query.Where("employer_id = ?", filter.EmployerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	var jobs []models.Job
	// Featured listings float to the top, then newest first
	if err := query.Order("featured DESC, created_at DESC").
		Limit(limit).Offset(offset).Find(&jobs).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return jobs, total, nil
}
