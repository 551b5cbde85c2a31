package models

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment tracks a vote-pack purchase. Status transitions come from the
// payment processor's webhook, which is the source of truth.
type Payment struct {
	ID          int           `gorm:"primaryKey" json:"id"`
	ProfileID   int           `gorm:"index;not null" json:"profile_id"`
	Reference   string        `gorm:"uniqueIndex;not null" json:"reference"`
	AmountCents int           `gorm:"not null" json:"amount_cents"`
	VoteCount   int           `gorm:"not null" json:"vote_count"`
	Status      PaymentStatus `gorm:"not null;default:'PENDING'" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type CreatePaymentRequest struct {
	VoteCount int `json:"vote_count" binding:"required,min=1"`
}

// PaymentWebhookEvent is the processor's callback payload.
type PaymentWebhookEvent struct {
	Reference string        `json:"reference" binding:"required"`
	Status    PaymentStatus `json:"status" binding:"required,oneof=PENDING COMPLETED FAILED REFUNDED"`
}
