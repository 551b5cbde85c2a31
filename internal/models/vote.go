package models

import "time"

type VoteType string

const (
	VoteTypeFree VoteType = "FREE"
	VoteTypePaid VoteType = "PAID"
)

// Weight is the per-unit value of a vote of this type, before any
// multiplier is applied. Paid votes count double in the current
// product configuration.
func (t VoteType) Weight() int {
	if t == VoteTypePaid {
		return 2
	}
	return 1
}

// Vote is written once at casting time and never mutated.
// VoterID is nullable: voters can be soft-deleted after the fact.
type Vote struct {
	ID   int      `gorm:"primaryKey" json:"id"`
	Type VoteType `gorm:"not null" json:"type"`
	// Count is the raw number of votes cast; WeightedCount is
	// count x type weight x multiplier, fixed at casting time.
	Count         int       `gorm:"not null" json:"count"`
	WeightedCount int       `gorm:"not null" json:"weighted_count"`
	VoterID       *int      `gorm:"index" json:"voter_id,omitempty"`
	VoteeID       int       `gorm:"index;not null" json:"votee_id"`
	ContestID     int       `gorm:"index" json:"contest_id"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

type CastVoteRequest struct {
	Type      VoteType `json:"type" binding:"required,oneof=FREE PAID"`
	Count     int      `json:"count"`
	VoteeID   int      `json:"votee_id" binding:"required"`
	ContestID int      `json:"contest_id"`
	Comment   string   `json:"comment"`
}
