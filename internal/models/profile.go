package models

import "time"

// Profile is the voter/model identity shown on the platform,
// distinct from the account record that owns it.
type Profile struct {
	ID             int        `gorm:"primaryKey" json:"id"`
	UserID         int        `gorm:"uniqueIndex;not null" json:"user_id"`
	User           User       `gorm:"foreignKey:UserID" json:"user"`
	DisplayName    string     `gorm:"not null" json:"display_name"`
	Bio            string     `json:"bio"`
	Avatar         string     `json:"avatar"`
	IsModel        bool       `gorm:"default:false" json:"is_model"`
	AvailableVotes int        `gorm:"default:0" json:"available_votes"`
	LastFreeVoteAt *time.Time `json:"last_free_vote_at,omitempty"`
	ReferralCode   string     `gorm:"uniqueIndex" json:"referral_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	Avatar      string `json:"avatar"`
}
