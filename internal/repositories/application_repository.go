package repositories

import (
	"gigdesk/internal/models"

	"gorm.io/gorm"
)

// ApplicationRepository defines the application persistence surface.
type ApplicationRepository interface {
	Create(app *models.Application) error
	GetByID(id uint) (*models.Application, error)
	GetByJobAndWorker(jobID, workerID uint) (*models.Application, error)
	Update(app *models.Application) error
	ListByJob(jobID uint) ([]models.Application, error)
	ListByWorker(workerID uint, limit, offset int) ([]models.Application, int64, error)
	CountAccepted(jobID uint) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new instance of ApplicationRepository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(app *models.Application) error {
	if err := r.db.Create(app).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *applicationRepository) GetByID(id uint) (*models.Application, error) {
	var app models.Application
	if err := r.db.First(&app, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrApplicationNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &app, nil
}

func (r *applicationRepository) GetByJobAndWorker(jobID, workerID uint) (*models.Application, error) {
	var app models.Application
	err := r.db.Where("job_id = ? AND worker_id = ?", jobID, workerID).First(&app).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrApplicationNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &app, nil
}

func (r *applicationRepository) Update(app *models.Application) error {
	if err := r.db.Save(app).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *applicationRepository) ListByJob(jobID uint) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.Where("job_id = ?", jobID).Order("created_at").Find(&apps).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return apps, nil
}

func (r *applicationRepository) ListByWorker(workerID uint, limit, offset int) ([]models.Application, int64, error) {
	query := r.db.Model(&models.Application{}).Where("worker_id = ?", workerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	var apps []models.Application
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&apps).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return apps, total, nil
}

func (r *applicationRepository) CountAccepted(jobID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Application{}).
		Where("job_id = ? AND status IN ?", jobID,
			[]string{models.ApplicationStatusAccepted, models.ApplicationStatusCompleted}).
		Count(&count).Error
	if err != nil {
		return 0, ErrDatabaseOperation
	}
	return count, nil
}
