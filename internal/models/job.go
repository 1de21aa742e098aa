package models

import (
	"time"

	"gorm.io/gorm"
)

// Job statuses
const (
	JobStatusOpen   = "open"
	JobStatusFilled = "filled"
	JobStatusClosed = "closed"
)

type Job struct {
	gorm.Model
	EmployerID  uint    `gorm:"index;not null"`
	Title       string  `gorm:"not null"`
	Description string  `gorm:"type:text"`
	Category    string  `gorm:"index"`
	Location    string
	PayAmount   float64 `gorm:"not null"` // gross pay per worker
	MaxWorkers  int     `gorm:"not null;default:1"`
	Featured    bool    `gorm:"default:false"`
	Urgent      bool    `gorm:"default:false"`
	Status      string  `gorm:"default:'open'"`
	PostingCost float64 // total charged when the job was posted
	ExpiresAt   *time.Time
}

// CreateJobInput is the payload accepted when an employer posts a job.
type CreateJobInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
	PayAmount   float64 `json:"pay_amount" validate:"required,gt=0"`
	MaxWorkers  int     `json:"max_workers" validate:"required,gte=1"`
	Featured    bool    `json:"featured"`
	Urgent      bool    `json:"urgent"`
}
