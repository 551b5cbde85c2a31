package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/gamification"
)

type MilestoneHandler struct {
	db       *gorm.DB
	progress *gamification.ProgressService
}

func NewMilestoneHandler(db *gorm.DB) *MilestoneHandler {
	return &MilestoneHandler{db: db, progress: gamification.NewProgressService(db)}
}

// GetMilestones returns the badge progress report for a profile.
func (h *MilestoneHandler) GetMilestones(c *gin.Context) {
	profileID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	report, err := h.progress.MilestoneProgress(profileID)
	if notFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute progress"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetUnlocks returns the gated-content progress report for a profile.
func (h *MilestoneHandler) GetUnlocks(c *gin.Context) {
	profileID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	report, err := h.progress.ContentProgress(profileID)
	if notFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute progress"})
		return
	}

	c.JSON(http.StatusOK, report)
}
