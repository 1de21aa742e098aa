package repositories

import (
	"gigdesk/internal/models"

	"gorm.io/gorm"
)

// CardRepository defines the payment card persistence surface.
type CardRepository interface {
	Create(card *models.PaymentCard) error
	GetByID(id uint) (*models.PaymentCard, error)
	GetActiveByUser(userID uint) (*models.PaymentCard, error)
	ListByUser(userID uint) ([]models.PaymentCard, error)
	Delete(id uint) error
}

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new instance of CardRepository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(card *models.PaymentCard) error {
	if err := r.db.Create(card).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *cardRepository) GetByID(id uint) (*models.PaymentCard, error) {
	var card models.PaymentCard
	if err := r.db.First(&card, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCardNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &card, nil
}

func (r *cardRepository) GetActiveByUser(userID uint) (*models.PaymentCard, error) {
	var card models.PaymentCard
	err := r.db.Where("user_id = ? AND status = ?", userID, "active").
		Order("created_at DESC").First(&card).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCardNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &card, nil
}

func (r *cardRepository) ListByUser(userID uint) ([]models.PaymentCard, error) {
	var cards []models.PaymentCard
	if err := r.db.Where("user_id = ?", userID).Find(&cards).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return cards, nil
}

func (r *cardRepository) Delete(id uint) error {
	result := r.db.Delete(&models.PaymentCard{}, id)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}
