package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
)

type ReferralHandler struct {
	db *gorm.DB
}

func NewReferralHandler(db *gorm.DB) *ReferralHandler {
	return &ReferralHandler{db: db}
}

// GetMyReferrals returns the caller's referral code and the signups it
// has brought in.
func (h *ReferralHandler) GetMyReferrals(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var profile models.Profile
	if err := h.db.First(&profile, profileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	var referrals []models.Referral
	if err := h.db.Where("referrer_profile_id = ?", profileID).Order("created_at desc").Find(&referrals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch referrals"})
		return
	}
	if referrals == nil {
		referrals = []models.Referral{}
	}

	totalBonus := 0
	for _, r := range referrals {
		totalBonus += r.BonusVotes
	}

	c.JSON(http.StatusOK, gin.H{
		"referral_code":     profile.ReferralCode,
		"referrals":         referrals,
		"total_bonus_votes": totalBonus,
	})
}
