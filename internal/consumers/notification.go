package consumers

import (
	"context"
	"database/sql"
	"encoding/json"

	"kobovault/internal/models"
	"kobovault/pkg/utils"
)

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

type emailSender func(to, subject, body string) error

type userEmailLookup func(ctx context.Context, userID int) (string, error)

// NotificationConsumer is the downstream sink for notification jobs: it
// persists the notification row and, when SMTP is configured, sends a
// best-effort email. It never fails a message; a broken notification is
// logged and dropped.
type NotificationConsumer struct {
	store       notificationStore
	lookupEmail userEmailLookup
	sendEmail   emailSender
}

func NewNotificationConsumer(store notificationStore, lookupEmail userEmailLookup, sendEmail emailSender) *NotificationConsumer {
	return &NotificationConsumer{store: store, lookupEmail: lookupEmail, sendEmail: sendEmail}
}

func (c *NotificationConsumer) Handle(ctx context.Context, body []byte) error {
	var job models.NotificationJob
	if err := json.Unmarshal(body, &job); err != nil {
		utils.Logger.WithError(err).Error("❌ Invalid notification payload")
		return nil
	}
	if err := job.Validate(); err != nil {
		utils.Logger.WithError(err).Error("❌ Invalid notification payload")
		return nil
	}

	err := c.store.Create(ctx, &models.Notification{
		UserID: job.UserID,
		Title:  job.Title,
		Body:   job.Body,
		Type:   job.Type,
	})
	if err != nil {
		utils.Logger.WithError(err).Errorf("❌ Failed to save notification for user %d", job.UserID)
		return nil
	}

	utils.Logger.Infof("📨 Notification saved for user %d: %s", job.UserID, job.Title)

	if c.sendEmail == nil || c.lookupEmail == nil {
		return nil
	}
	email, err := c.lookupEmail(ctx, job.UserID)
	if err != nil || email == "" {
		return nil
	}
	if err := c.sendEmail(email, job.Title, job.Body); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to email notification to user %d", job.UserID)
	}
	return nil
}

// LookupUserEmail resolves a user's email for notification delivery.
func LookupUserEmail(db *sql.DB) userEmailLookup {
	return func(ctx context.Context, userID int) (string, error) {
		var email string
		err := db.QueryRowContext(ctx, "SELECT email FROM users WHERE id = ?", userID).Scan(&email)
		if err == sql.ErrNoRows {
			return "", nil
		}
		return email, err
	}
}
