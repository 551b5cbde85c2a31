package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
	"github.com/coverstar/backend/internal/testdb"
)

func webhookRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/payments/webhook", NewPaymentHandler(db).Webhook)
	return r
}

func postWebhook(t *testing.T, r *gin.Engine, event models.PaymentWebhookEvent) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/payments/webhook", bytes.NewReader(body)))
	return w
}

func TestPaymentWebhook_RetriedCompletionCreditsOnce(t *testing.T) {
	db := testdb.New(t)
	profile := seedAccount(t, db, "shopper", false, 0)

	payment := models.Payment{
		ProfileID:   profile.ID,
		Reference:   "pay-ref-1",
		AmountCents: 500,
		VoteCount:   10,
		Status:      models.PaymentPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	r := webhookRouter(db)
	event := models.PaymentWebhookEvent{Reference: "pay-ref-1", Status: models.PaymentCompleted}

	// the processor retries deliveries; both must 200
	require.Equal(t, http.StatusOK, postWebhook(t, r, event).Code)
	require.Equal(t, http.StatusOK, postWebhook(t, r, event).Code)

	var credited models.Profile
	require.NoError(t, db.First(&credited, profile.ID).Error)
	assert.Equal(t, 10, credited.AvailableVotes)

	var final models.Payment
	require.NoError(t, db.Where("reference = ?", "pay-ref-1").First(&final).Error)
	assert.Equal(t, models.PaymentCompleted, final.Status)
}

func TestPaymentWebhook_FailureDoesNotCredit(t *testing.T) {
	db := testdb.New(t)
	profile := seedAccount(t, db, "window", false, 0)

	payment := models.Payment{
		ProfileID:   profile.ID,
		Reference:   "pay-ref-2",
		AmountCents: 500,
		VoteCount:   10,
		Status:      models.PaymentPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	r := webhookRouter(db)
	require.Equal(t, http.StatusOK,
		postWebhook(t, r, models.PaymentWebhookEvent{Reference: "pay-ref-2", Status: models.PaymentFailed}).Code)

	// a completion after the terminal failure must not credit either
	require.Equal(t, http.StatusOK,
		postWebhook(t, r, models.PaymentWebhookEvent{Reference: "pay-ref-2", Status: models.PaymentCompleted}).Code)

	var unchanged models.Profile
	require.NoError(t, db.First(&unchanged, profile.ID).Error)
	assert.Equal(t, 0, unchanged.AvailableVotes)

	var final models.Payment
	require.NoError(t, db.Where("reference = ?", "pay-ref-2").First(&final).Error)
	assert.Equal(t, models.PaymentFailed, final.Status)
}

func TestPaymentWebhook_UnknownReference(t *testing.T) {
	db := testdb.New(t)

	w := postWebhook(t, webhookRouter(db), models.PaymentWebhookEvent{
		Reference: "no-such-ref",
		Status:    models.PaymentCompleted,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
