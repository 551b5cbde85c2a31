package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
	"github.com/coverstar/backend/internal/reports"
)

type AdminHandler struct {
	db      *gorm.DB
	reports *reports.VoteReportService
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db, reports: reports.NewVoteReportService(db)}
}

// GetVoteReport runs the filtered vote listing.
func (h *AdminHandler) GetVoteReport(c *gin.Context) {
	filter, err := parseVoteFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reports.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run vote report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func parseVoteFilter(c *gin.Context) (reports.VoteFilter, error) {
	var filter reports.VoteFilter

	intParam := func(name string) (*int, error) {
		raw := c.Query(name)
		if raw == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("invalid " + name + " parameter")
		}
		return &n, nil
	}

	var err error
	if filter.ContestID, err = intParam("contest_id"); err != nil {
		return filter, err
	}
	if filter.VoterID, err = intParam("voter_id"); err != nil {
		return filter, err
	}
	if filter.VoteeID, err = intParam("votee_id"); err != nil {
		return filter, err
	}

	filter.Search = c.Query("search")

	if raw := c.Query("type"); raw != "" {
		t := models.VoteType(raw)
		if t != models.VoteTypeFree && t != models.VoteTypePaid {
			return filter, errors.New("invalid type parameter")
		}
		filter.Type = &t
	}

	if filter.From, err = reports.ParseDateBound(c.Query("from"), false); err != nil {
		return filter, err
	}
	if filter.To, err = reports.ParseDateBound(c.Query("to"), true); err != nil {
		return filter, err
	}

	filter.SortBy = c.Query("sort_by")
	filter.SortDir = c.Query("sort_dir")
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	return filter, nil
}

// CreateMultiplierPeriod opens a global multiplier window.
func (h *AdminHandler) CreateMultiplierPeriod(c *gin.Context) {
	var input models.CreateMultiplierPeriodRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Multiplier (min 2), start and end time are required"})
		return
	}
	if !input.EndTime.After(input.StartTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End time must be after start time"})
		return
	}

	period := models.VoteMultiplierPeriod{
		MultiplierTimes: input.MultiplierTimes,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		IsActive:        true,
	}
	if err := h.db.Create(&period).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create multiplier period"})
		return
	}

	c.JSON(http.StatusCreated, period)
}

func (h *AdminHandler) GetMultiplierPeriods(c *gin.Context) {
	var periods []models.VoteMultiplierPeriod
	if err := h.db.Order("created_at desc").Find(&periods).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch multiplier periods"})
		return
	}
	if periods == nil {
		periods = []models.VoteMultiplierPeriod{}
	}
	c.JSON(http.StatusOK, periods)
}

// DeactivateMultiplierPeriod retires a period without deleting its
// history.
func (h *AdminHandler) DeactivateMultiplierPeriod(c *gin.Context) {
	var period models.VoteMultiplierPeriod
	if err := h.db.First(&period, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Multiplier period not found"})
		return
	}

	if err := h.db.Model(&period).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate multiplier period"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Multiplier period deactivated"})
}

func (h *AdminHandler) CreateContest(c *gin.Context) {
	var input models.CreateContestRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, start and end time are required"})
		return
	}

	contest := models.Contest{
		Name:        input.Name,
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		IsActive:    true,
	}
	if err := h.db.Create(&contest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contest"})
		return
	}

	c.JSON(http.StatusCreated, contest)
}

// GetStats returns headline platform counters.
func (h *AdminHandler) GetStats(c *gin.Context) {
	var users, profiles, votes, payments int64
	var weighted int64

	if err := h.db.Model(&models.User{}).Count(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	h.db.Model(&models.Profile{}).Count(&profiles)
	h.db.Model(&models.Vote{}).Count(&votes)
	h.db.Model(&models.Payment{}).Where("status = ?", models.PaymentCompleted).Count(&payments)
	h.db.Model(&models.Vote{}).Select("COALESCE(SUM(weighted_count), 0)").Scan(&weighted)

	c.JSON(http.StatusOK, gin.H{
		"users":                users,
		"profiles":             profiles,
		"votes":                votes,
		"completed_payments":   payments,
		"total_weighted_votes": weighted,
	})
}
