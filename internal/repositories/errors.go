package repositories

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrCardNotFound        = errors.New("card not found")
	ErrDatabaseOperation   = errors.New("database operation failed")
)
