package gamification

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
)

const (
	// spinPrizeMultiplier is the floor an active VOTE_MULTIPLIER prize
	// raises the effective multiplier to. It never stacks with the
	// global period multiplier.
	spinPrizeMultiplier = 2

	// TokenMultiplier is the one-shot boost of a VOTE_MULTIPLIER_TOKEN.
	TokenMultiplier = 10
)

// ErrAlreadyClaimed signals that a racing request consumed the prize
// first. Callers treat it as "no reward available", not a failure.
var ErrAlreadyClaimed = errors.New("spin prize already claimed")

type MultiplierService struct {
	db *gorm.DB
}

func NewMultiplierService(db *gorm.DB) *MultiplierService {
	return &MultiplierService{db: db}
}

// ResolveMultiplier returns the effective vote multiplier for a profile
// at the given instant. The baseline comes from the most recently
// created active global period whose window contains now (1 when there
// is none). An active, claimed, unexpired VOTE_MULTIPLIER spin prize
// raises the result to at least 2 but never compounds with the global
// multiplier. The result is always >= 1.
func (s *MultiplierService) ResolveMultiplier(profileID *int, now time.Time) (int, error) {
	multiplier := 1

	var period models.VoteMultiplierPeriod
	err := s.db.
		Where("is_active = ? AND start_time <= ? AND end_time >= ?", true, now, now).
		Order("created_at DESC").
		First(&period).Error
	switch {
	case err == nil:
		multiplier = period.MultiplierTimes
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no active period, baseline stays 1
	default:
		return 0, err
	}

	if profileID != nil {
		var count int64
		err := s.db.Model(&models.ActiveSpinPrize{}).
			Where("profile_id = ? AND prize_type = ? AND is_active = ? AND is_claimed = ?",
				*profileID, models.PrizeVoteMultiplier, true, true).
			Where("expires_at IS NULL OR expires_at > ?", now).
			Count(&count).Error
		if err != nil {
			return 0, err
		}
		if count > 0 && multiplier < spinPrizeMultiplier {
			multiplier = spinPrizeMultiplier
		}
	}

	if multiplier < 1 {
		multiplier = 1
	}
	return multiplier, nil
}

// VoteBoost is the result of applying the current multiplier to a raw
// vote count.
type VoteBoost struct {
	OriginalVotes       int  `json:"original_votes"`
	Multiplier          int  `json:"multiplier"`
	TotalVotes          int  `json:"total_votes"`
	HasActiveMultiplier bool `json:"has_active_multiplier"`
}

// ApplyMultiplier resolves the multiplier for the profile and scales
// rawCount by it. Read-then-compute only, no side effects.
func (s *MultiplierService) ApplyMultiplier(rawCount int, profileID *int, now time.Time) (VoteBoost, error) {
	multiplier, err := s.ResolveMultiplier(profileID, now)
	if err != nil {
		return VoteBoost{}, err
	}
	return VoteBoost{
		OriginalVotes:       rawCount,
		Multiplier:          multiplier,
		TotalVotes:          rawCount * multiplier,
		HasActiveMultiplier: multiplier > 1,
	}, nil
}

// GetUserMultiplierToken returns the profile's oldest unconsumed
// VOTE_MULTIPLIER_TOKEN, or nil when it holds none. Tokens are a
// one-shot 10x reward and are deliberately kept out of
// ResolveMultiplier: the caller applies the boost once and then
// consumes the token.
func (s *MultiplierService) GetUserMultiplierToken(profileID int, now time.Time) (*models.ActiveSpinPrize, error) {
	var token models.ActiveSpinPrize
	err := s.db.
		Where("profile_id = ? AND prize_type = ? AND is_active = ? AND is_claimed = ?",
			profileID, models.PrizeVoteMultiplierToken, true, false).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("created_at ASC").
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// ConsumeMultiplierToken marks a token claimed. The conditional update
// is the concurrency guard: when two requests race, exactly one sees a
// row affected and the other gets ErrAlreadyClaimed.
func (s *MultiplierService) ConsumeMultiplierToken(tx *gorm.DB, tokenID int) error {
	if tx == nil {
		tx = s.db
	}
	res := tx.Model(&models.ActiveSpinPrize{}).
		Where("id = ? AND is_claimed = ?", tokenID, false).
		Updates(map[string]interface{}{"is_claimed": true, "is_active": false})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyClaimed
	}
	return nil
}
