package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
)

type ContestHandler struct {
	db *gorm.DB
}

func NewContestHandler(db *gorm.DB) *ContestHandler {
	return &ContestHandler{db: db}
}

func (h *ContestHandler) GetContests(c *gin.Context) {
	var contests []models.Contest
	if err := h.db.Where("is_active = ?", true).Order("start_time desc").Find(&contests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contests"})
		return
	}
	if contests == nil {
		contests = []models.Contest{}
	}
	c.JSON(http.StatusOK, contests)
}

func (h *ContestHandler) GetContest(c *gin.Context) {
	var contest models.Contest
	if err := h.db.First(&contest, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contest not found"})
		return
	}
	c.JSON(http.StatusOK, contest)
}

// GetLeaderboard ranks a contest's profiles by weighted vote total.
func (h *ContestHandler) GetLeaderboard(c *gin.Context) {
	contestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contest id"})
		return
	}

	if err := h.db.First(&models.Contest{}, contestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contest not found"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	type entry struct {
		ProfileID   int    `json:"profile_id"`
		DisplayName string `json:"display_name"`
		Avatar      string `json:"avatar"`
		TotalVotes  int64  `json:"total_votes"`
	}

	var entries []entry
	err = h.db.Model(&models.Vote{}).
		Select("votes.votee_id AS profile_id, profiles.display_name, profiles.avatar, SUM(votes.weighted_count) AS total_votes").
		Joins("JOIN profiles ON profiles.id = votes.votee_id").
		Where("votes.contest_id = ?", contestID).
		Group("votes.votee_id, profiles.display_name, profiles.avatar").
		Order("total_votes DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}
	if entries == nil {
		entries = []entry{}
	}

	c.JSON(http.StatusOK, entries)
}
