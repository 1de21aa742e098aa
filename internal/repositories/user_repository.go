package repositories

import "gigdesk/internal/models"

// UserRepository defines the user persistence surface.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(limit, offset int) ([]models.User, int64, error)
	IncrementTokenVersion(userID uint) error
}
