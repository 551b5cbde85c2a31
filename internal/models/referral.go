package models

import "time"

// Referral links a referred account to the profile whose code it used.
// One row per referred user; the bonus is credited exactly once.
type Referral struct {
	ID                int       `gorm:"primaryKey" json:"id"`
	ReferrerProfileID int       `gorm:"index;not null" json:"referrer_profile_id"`
	ReferredUserID    int       `gorm:"uniqueIndex;not null" json:"referred_user_id"`
	Code              string    `gorm:"not null" json:"code"`
	BonusVotes        int       `json:"bonus_votes"`
	CreatedAt         time.Time `json:"created_at"`
}
