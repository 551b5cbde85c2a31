package models

import "time"

// VoteMultiplierPeriod is a global, admin-defined time window during
// which all votes count extra. Overlapping active periods are
// disambiguated by most recent CreatedAt.
type VoteMultiplierPeriod struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	MultiplierTimes int       `gorm:"not null" json:"multiplier_times"`
	StartTime       time.Time `gorm:"not null;index" json:"start_time"`
	EndTime         time.Time `gorm:"not null;index" json:"end_time"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateMultiplierPeriodRequest struct {
	MultiplierTimes int       `json:"multiplier_times" binding:"required,min=2"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	EndTime         time.Time `json:"end_time" binding:"required"`
}
