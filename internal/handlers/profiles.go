package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/gamification"
	"github.com/coverstar/backend/internal/models"
)

type ProfileHandler struct {
	db          *gorm.DB
	multipliers *gamification.MultiplierService
	progress    *gamification.ProgressService
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{
		db:          db,
		multipliers: gamification.NewMultiplierService(db),
		progress:    gamification.NewProgressService(db),
	}
}

// GetProfile returns a public profile with its vote total and the
// multiplier currently applying to votes for it.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profileID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	var profile models.Profile
	if err := h.db.Preload("User").First(&profile, profileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	total, err := h.progress.TotalVotes(profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vote total"})
		return
	}

	multiplier, err := h.multipliers.ResolveMultiplier(&profile.ID, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve multiplier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           profile.ID,
		"display_name": profile.DisplayName,
		"bio":          profile.Bio,
		"avatar":       profile.Avatar,
		"is_model":     profile.IsModel,
		"username":     profile.User.Username,
		"total_votes":  total,
		"multiplier":   multiplier,
		"created_at":   profile.CreatedAt,
	})
}

// UpdateProfile edits the caller's own profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}
	if targetID != profileID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own profile"})
		return
	}

	var input models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var profile models.Profile
	if err := h.db.First(&profile, profileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	if input.DisplayName != "" {
		profile.DisplayName = input.DisplayName
	}
	if input.Bio != "" {
		profile.Bio = input.Bio
	}
	if input.Avatar != "" {
		profile.Avatar = input.Avatar
	}

	if err := h.db.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
