package models

import (
	"time"

	"gorm.io/gorm"
)

// Application statuses
const (
	ApplicationStatusApplied   = "applied"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusCompleted = "completed"
	ApplicationStatusRejected  = "rejected"
)

type Application struct {
	gorm.Model
	JobID       uint   `gorm:"index:idx_job_worker,unique;not null"`
	WorkerID    uint   `gorm:"index:idx_job_worker,unique;not null"`
	Status      string `gorm:"default:'applied'"`
	Message     string `gorm:"type:text"`
	AcceptedAt  *time.Time
	CompletedAt *time.Time
}
