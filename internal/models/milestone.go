package models

import "time"

// Milestone records that a profile crossed a vote threshold at some
// point. It is a notification/audit trail only: whether a milestone is
// currently unlocked is always recomputed from the live vote aggregate.
type Milestone struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	ProfileID  int       `gorm:"index;not null" json:"profile_id"`
	Threshold  int64     `gorm:"not null" json:"threshold"`
	UnlockedAt time.Time `json:"unlocked_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// UnlockedContent follows the same threshold pattern as Milestone but
// gates profile content instead of badges.
type UnlockedContent struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	ProfileID  int       `gorm:"index;not null" json:"profile_id"`
	Threshold  int64     `gorm:"not null" json:"threshold"`
	ContentKey string    `gorm:"not null" json:"content_key"`
	UnlockedAt time.Time `json:"unlocked_at"`
	CreatedAt  time.Time `json:"created_at"`
}
