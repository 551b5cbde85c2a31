package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
)

// votePriceCents is the unit price of one paid vote.
const votePriceCents = 50

type PaymentHandler struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{db: db, log: logrus.WithField("component", "payments")}
}

// CreatePayment opens a pending vote-pack purchase. The processor
// redirect/capture happens client-side against the returned reference.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote count must be at least 1"})
		return
	}

	payment := models.Payment{
		ProfileID:   profileID,
		Reference:   uuid.NewString(),
		AmountCents: input.VoteCount * votePriceCents,
		VoteCount:   input.VoteCount,
		Status:      models.PaymentPending,
	}
	if err := h.db.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// Webhook applies the processor's status transition. The processor is
// the source of truth; a COMPLETED transition credits the vote balance
// exactly once because only PENDING rows transition.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var event models.PaymentWebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	var payment models.Payment
	if err := h.db.Where("reference = ?", event.Reference).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("reference = ? AND status = ?", event.Reference, models.PaymentPending).
			Update("status", event.Status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// already finalized, webhook retry
			return nil
		}

		if event.Status == models.PaymentCompleted {
			return tx.Model(&models.Profile{}).
				Where("id = ?", payment.ProfileID).
				Update("available_votes", gorm.Expr("available_votes + ?", payment.VoteCount)).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
		return
	}

	h.log.WithFields(logrus.Fields{
		"reference": event.Reference,
		"status":    event.Status,
	}).Info("payment webhook processed")

	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed"})
}

// GetMyPayments lists the caller's purchases.
func (h *PaymentHandler) GetMyPayments(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var payments []models.Payment
	if err := h.db.Where("profile_id = ?", profileID).Order("created_at desc").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}

	c.JSON(http.StatusOK, payments)
}
