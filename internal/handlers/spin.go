package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/gamification"
)

type SpinHandler struct {
	db    *gorm.DB
	spins *gamification.SpinService
}

func NewSpinHandler(db *gorm.DB) *SpinHandler {
	return &SpinHandler{db: db, spins: gamification.NewSpinService(db)}
}

// Spin runs the wheel for the authenticated profile.
func (h *SpinHandler) Spin(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	prize, err := h.spins.Spin(profileID, time.Now().UTC())
	if errors.Is(err, gamification.ErrNoPrizesConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Spin wheel is not available"})
		return
	}
	if notFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to spin"})
		return
	}

	c.JSON(http.StatusCreated, prize)
}

// GetPrizes lists the caller's live prize grants.
func (h *SpinHandler) GetPrizes(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	prizes, err := h.spins.ActivePrizes(profileID, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prizes"})
		return
	}
	c.JSON(http.StatusOK, prizes)
}

// ClaimPrize activates a won prize. A racing duplicate claim comes
// back as "no reward available", not an error page.
func (h *SpinHandler) ClaimPrize(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	prizeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prize id"})
		return
	}

	prize, err := h.spins.ClaimPrize(profileID, prizeID, time.Now().UTC())
	if errors.Is(err, gamification.ErrTokenNotClaimable) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Multiplier tokens are applied automatically when votes come in"})
		return
	}
	if errors.Is(err, gamification.ErrAlreadyClaimed) {
		c.JSON(http.StatusConflict, gin.H{"error": "No reward available"})
		return
	}
	if notFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prize not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim prize"})
		return
	}

	c.JSON(http.StatusOK, prize)
}
