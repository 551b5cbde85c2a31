package models

import "time"

type PrizeType string

const (
	// PrizeVoteMultiplier is the ambient 2x multiplier: while active,
	// claimed and unexpired it raises the effective multiplier floor.
	PrizeVoteMultiplier PrizeType = "VOTE_MULTIPLIER"
	// PrizeVoteMultiplierToken is the one-shot 10x token. It is never
	// folded into the ambient multiplier; consuming it marks it claimed.
	PrizeVoteMultiplierToken PrizeType = "VOTE_MULTIPLIER_TOKEN"
	PrizeBonusVotes          PrizeType = "BONUS_VOTES"
	PrizeNothing             PrizeType = "NOTHING"
)

// SpinPrize is a wheel segment: what can be won and how likely.
type SpinPrize struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	PrizeType    PrizeType `gorm:"not null" json:"prize_type"`
	Label        string    `gorm:"not null" json:"label"`
	Amount       int       `json:"amount"`
	ChanceWeight int       `gorm:"not null" json:"chance_weight"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// ActiveSpinPrize is a reward grant held by one profile.
type ActiveSpinPrize struct {
	ID        int        `gorm:"primaryKey" json:"id"`
	ProfileID int        `gorm:"index;not null" json:"profile_id"`
	PrizeType PrizeType  `gorm:"not null" json:"prize_type"`
	Amount    int        `json:"amount"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	IsClaimed bool       `gorm:"default:false" json:"is_claimed"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	WonAt     time.Time  `json:"won_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Expired reports whether the grant is past its expiry at the given time.
// A nil ExpiresAt never expires.
func (p *ActiveSpinPrize) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}
