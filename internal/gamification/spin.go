package gamification

import (
	"errors"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
)

var ErrNoPrizesConfigured = errors.New("no active spin prizes configured")

// ErrTokenNotClaimable rejects manual claims on multiplier tokens.
// Tokens are consumed automatically when a vote for the holder is
// cast; claiming one here would destroy it without applying its boost.
var ErrTokenNotClaimable = errors.New("multiplier tokens are consumed automatically")

const (
	multiplierPrizeTTL = 24 * time.Hour
	tokenPrizeTTL      = 7 * 24 * time.Hour
)

// SpinService runs the reward wheel: a weighted random pick over the
// active prize table, persisted as a grant on the spinning profile.
type SpinService struct {
	db      *gorm.DB
	randInt func(n int) int
}

func NewSpinService(db *gorm.DB) *SpinService {
	return &SpinService{db: db, randInt: rand.Intn}
}

// Spin picks a prize and grants it to the profile. BONUS_VOTES grants
// are credited to the vote balance immediately and stored pre-claimed;
// multiplier grants stay claimable with their respective expiry.
func (s *SpinService) Spin(profileID int, now time.Time) (*models.ActiveSpinPrize, error) {
	var prizes []models.SpinPrize
	if err := s.db.Where("is_active = ?", true).Order("id ASC").Find(&prizes).Error; err != nil {
		return nil, err
	}

	prize, err := s.pick(prizes)
	if err != nil {
		return nil, err
	}

	grant := models.ActiveSpinPrize{
		ProfileID: profileID,
		PrizeType: prize.PrizeType,
		Amount:    prize.Amount,
		IsActive:  true,
		WonAt:     now,
	}

	switch prize.PrizeType {
	case models.PrizeVoteMultiplier:
		expires := now.Add(multiplierPrizeTTL)
		grant.ExpiresAt = &expires
	case models.PrizeVoteMultiplierToken:
		expires := now.Add(tokenPrizeTTL)
		grant.ExpiresAt = &expires
	case models.PrizeNothing:
		grant.IsActive = false
		grant.IsClaimed = true
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if prize.PrizeType == models.PrizeBonusVotes {
			grant.IsClaimed = true
			res := tx.Model(&models.Profile{}).
				Where("id = ?", profileID).
				Update("available_votes", gorm.Expr("available_votes + ?", prize.Amount))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.Create(&grant).Error
	})
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// ClaimPrize activates a multiplier grant. The conditional update makes
// a double claim surface as ErrAlreadyClaimed instead of a double
// credit.
func (s *SpinService) ClaimPrize(profileID, prizeID int, now time.Time) (*models.ActiveSpinPrize, error) {
	var prize models.ActiveSpinPrize
	if err := s.db.Where("id = ? AND profile_id = ?", prizeID, profileID).First(&prize).Error; err != nil {
		return nil, err
	}
	if !prize.IsActive || prize.Expired(now) {
		return nil, gorm.ErrRecordNotFound
	}
	if prize.PrizeType == models.PrizeVoteMultiplierToken {
		return nil, ErrTokenNotClaimable
	}

	res := s.db.Model(&models.ActiveSpinPrize{}).
		Where("id = ? AND is_claimed = ?", prizeID, false).
		Update("is_claimed", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyClaimed
	}

	prize.IsClaimed = true
	return &prize, nil
}

// ActivePrizes lists the profile's live grants, newest first.
func (s *SpinService) ActivePrizes(profileID int, now time.Time) ([]models.ActiveSpinPrize, error) {
	var prizes []models.ActiveSpinPrize
	err := s.db.
		Where("profile_id = ? AND is_active = ?", profileID, true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("created_at DESC").
		Find(&prizes).Error
	return prizes, err
}

func (s *SpinService) pick(prizes []models.SpinPrize) (*models.SpinPrize, error) {
	total := 0
	for _, p := range prizes {
		if p.ChanceWeight > 0 {
			total += p.ChanceWeight
		}
	}
	if total == 0 {
		return nil, ErrNoPrizesConfigured
	}

	roll := s.randInt(total)
	for i := range prizes {
		if prizes[i].ChanceWeight <= 0 {
			continue
		}
		roll -= prizes[i].ChanceWeight
		if roll < 0 {
			return &prizes[i], nil
		}
	}
	return &prizes[len(prizes)-1], nil
}
