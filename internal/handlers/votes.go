package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/gamification"
	"github.com/coverstar/backend/internal/mailer"
	"github.com/coverstar/backend/internal/models"
)

const freeVoteCooldown = 24 * time.Hour

type VoteHandler struct {
	db          *gorm.DB
	multipliers *gamification.MultiplierService
	progress    *gamification.ProgressService
}

func NewVoteHandler(db *gorm.DB) *VoteHandler {
	return &VoteHandler{
		db:          db,
		multipliers: gamification.NewMultiplierService(db),
		progress:    gamification.NewProgressService(db),
	}
}

// CastVote records a vote for a model profile. The weighted value is
// fixed at casting time: count x type weight x the votee's effective
// multiplier, times 10 when the votee holds an unconsumed multiplier
// token. A token lost to a racing request falls back to the ambient
// multiplier instead of failing the vote.
func (h *VoteHandler) CastVote(c *gin.Context) {
	voterID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CastVoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote type and votee are required"})
		return
	}

	var votee models.Profile
	if err := h.db.First(&votee, input.VoteeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Votee profile not found"})
		return
	}
	if !votee.IsModel {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Votes can only be cast for model profiles"})
		return
	}

	if input.ContestID != 0 {
		var contest models.Contest
		if err := h.db.First(&contest, input.ContestID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contest not found"})
			return
		}
	}

	now := time.Now().UTC()

	count := input.Count
	if input.Type == models.VoteTypeFree {
		count = 1
	}
	if count < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote count must be at least 1"})
		return
	}

	var voter models.Profile
	if err := h.db.First(&voter, voterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Voter profile not found"})
		return
	}

	if input.Type == models.VoteTypeFree {
		if voter.LastFreeVoteAt != nil && now.Sub(*voter.LastFreeVoteAt) < freeVoteCooldown {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Free vote not available yet"})
			return
		}
	} else if voter.AvailableVotes < count {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough votes available"})
		return
	}

	boost, err := h.multipliers.ApplyMultiplier(count, &votee.ID, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve multiplier"})
		return
	}

	token, err := h.multipliers.GetUserMultiplierToken(votee.ID, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve multiplier"})
		return
	}

	var vote models.Vote
	var crossed []gamification.ThresholdConfig
	err = h.db.Transaction(func(tx *gorm.DB) error {
		weighted := count * input.Type.Weight() * boost.Multiplier
		if token != nil {
			switch err := h.multipliers.ConsumeMultiplierToken(tx, token.ID); {
			case err == nil:
				weighted = count * input.Type.Weight() * gamification.TokenMultiplier
			case errors.Is(err, gamification.ErrAlreadyClaimed):
				// lost the race, ambient multiplier stands
			default:
				return err
			}
		}

		vid := voterID
		vote = models.Vote{
			Type:          input.Type,
			Count:         count,
			WeightedCount: weighted,
			VoterID:       &vid,
			VoteeID:       votee.ID,
			ContestID:     input.ContestID,
			Comment:       input.Comment,
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}

		if input.Type == models.VoteTypeFree {
			if err := tx.Model(&models.Profile{}).
				Where("id = ?", voterID).
				Update("last_free_vote_at", now).Error; err != nil {
				return err
			}
		} else {
			res := tx.Model(&models.Profile{}).
				Where("id = ? AND available_votes >= ?", voterID, count).
				Update("available_votes", gorm.Expr("available_votes - ?", count))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errInsufficientVotes
			}
		}

		var total int64
		if err := tx.Model(&models.Vote{}).
			Where("votee_id = ?", votee.ID).
			Select("COALESCE(SUM(weighted_count), 0)").
			Scan(&total).Error; err != nil {
			return err
		}

		crossed, err = h.progress.RecordCrossings(tx, votee.ID, total, now)
		return err
	})
	if errors.Is(err, errInsufficientVotes) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough votes available"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cast vote"})
		return
	}

	h.notifyCrossings(votee, crossed)

	c.JSON(http.StatusCreated, gin.H{
		"vote":  vote,
		"boost": boost,
	})
}

var errInsufficientVotes = errors.New("insufficient vote balance")

// notifyCrossings queues a milestone email per newly crossed threshold.
// Queue failures do not fail the vote.
func (h *VoteHandler) notifyCrossings(votee models.Profile, crossed []gamification.ThresholdConfig) {
	if len(crossed) == 0 {
		return
	}
	var user models.User
	if err := h.db.First(&user, votee.UserID).Error; err != nil {
		return
	}
	for _, cfg := range crossed {
		subject := fmt.Sprintf("Milestone reached: %s", cfg.Name)
		body := fmt.Sprintf("Congratulations %s, you passed %d votes!", votee.DisplayName, cfg.Threshold)
		_ = mailer.Enqueue(h.db, user.Email, subject, body)
	}
}

// GetProfileVotes lists votes received by a profile, newest first.
func (h *VoteHandler) GetProfileVotes(c *gin.Context) {
	profileID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	if err := h.db.First(&models.Profile{}, profileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	var votes []models.Vote
	if err := h.db.Where("votee_id = ?", profileID).Order("created_at desc").Limit(100).Find(&votes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
		return
	}
	if votes == nil {
		votes = []models.Vote{}
	}

	c.JSON(http.StatusOK, votes)
}

// GetMultiplier reports the multiplier currently in effect for a
// profile, for the frontend's "2x votes now!" banner.
func (h *VoteHandler) GetMultiplier(c *gin.Context) {
	profileID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	if err := h.db.First(&models.Profile{}, profileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	boost, err := h.multipliers.ApplyMultiplier(1, &profileID, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve multiplier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"multiplier":            boost.Multiplier,
		"has_active_multiplier": boost.HasActiveMultiplier,
	})
}
