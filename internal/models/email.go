package models

import "time"

type EmailJobStatus string

const (
	EmailQueued EmailJobStatus = "QUEUED"
	EmailSent   EmailJobStatus = "SENT"
	EmailFailed EmailJobStatus = "FAILED"
)

// EmailJob is an outbox row drained by the mailer worker.
type EmailJob struct {
	ID        int            `gorm:"primaryKey" json:"id"`
	Recipient string         `gorm:"not null" json:"recipient"`
	Subject   string         `gorm:"not null" json:"subject"`
	Body      string         `json:"body"`
	Status    EmailJobStatus `gorm:"not null;default:'QUEUED';index" json:"status"`
	Attempts  int            `gorm:"default:0" json:"attempts"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
