package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/database"
)

// Handler combines all handler types
type Handler struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Vote      *VoteHandler
	Contest   *ContestHandler
	Spin      *SpinHandler
	Milestone *MilestoneHandler
	Referral  *ReferralHandler
	Payment   *PaymentHandler
	Admin     *AdminHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(dbService database.Service) *Handler {
	db := dbService.GetDB()

	return &Handler{
		Auth:      NewAuthHandler(db),
		Profile:   NewProfileHandler(db),
		Vote:      NewVoteHandler(db),
		Contest:   NewContestHandler(db),
		Spin:      NewSpinHandler(db),
		Milestone: NewMilestoneHandler(db),
		Referral:  NewReferralHandler(db),
		Payment:   NewPaymentHandler(db),
		Admin:     NewAdminHandler(db),
	}
}

// currentProfileID reads the authenticated caller's profile from the
// context set by the auth middleware.
func currentProfileID(c *gin.Context) (int, bool) {
	v, exists := c.Get("profile_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

func currentUserID(c *gin.Context) (int, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// notFound reports whether err is the store's missing-record error.
func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
