package mailer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
)

const (
	drainInterval = 30 * time.Second
	batchSize     = 25
	maxAttempts   = 3
)

// Sender is the delivery transport boundary. Production wires an ESP
// client here; the default just logs.
type Sender interface {
	Send(to, subject, body string) error
}

type logSender struct{}

func (logSender) Send(to, subject, body string) error {
	logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("email delivered (log transport)")
	return nil
}

// Enqueue writes an outbox row for the worker to pick up.
func Enqueue(db *gorm.DB, to, subject, body string) error {
	job := models.EmailJob{
		Recipient: to,
		Subject:   subject,
		Body:      body,
		Status:    models.EmailQueued,
	}
	return db.Create(&job).Error
}

// Worker drains the email outbox on an interval.
type Worker struct {
	db     *gorm.DB
	sender Sender
	log    *logrus.Entry
}

func NewWorker(db *gorm.DB) *Worker {
	return &Worker{
		db:     db,
		sender: logSender{},
		log:    logrus.WithField("component", "mailer"),
	}
}

// Start runs the drain loop until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	w.log.Info("mailer worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("mailer worker stopped")
			return
		case <-ticker.C:
			if err := w.Drain(); err != nil {
				w.log.WithError(err).Error("outbox drain failed")
			}
		}
	}
}

// Drain sends one batch of queued jobs. Jobs that keep failing are
// parked as FAILED after maxAttempts.
func (w *Worker) Drain() error {
	var jobs []models.EmailJob
	err := w.db.
		Where("status = ?", models.EmailQueued).
		Order("created_at ASC").
		Limit(batchSize).
		Find(&jobs).Error
	if err != nil {
		return err
	}

	for _, job := range jobs {
		updates := map[string]interface{}{"attempts": job.Attempts + 1}
		if err := w.sender.Send(job.Recipient, job.Subject, job.Body); err != nil {
			w.log.WithError(err).WithField("job_id", job.ID).Warn("email send failed")
			if job.Attempts+1 >= maxAttempts {
				updates["status"] = models.EmailFailed
			}
		} else {
			updates["status"] = models.EmailSent
		}
		if err := w.db.Model(&models.EmailJob{}).Where("id = ?", job.ID).Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}
