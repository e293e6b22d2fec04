package consumers

import (
	"context"
	"database/sql"
	"encoding/json"

	"kobovault/internal/models"
	"kobovault/pkg/utils"
)

type loginLogStore interface {
	Create(ctx context.Context, log *models.LoginLog) error
}

// LoginConsumer persists login-audit events from the login_logs queue.
type LoginConsumer struct {
	store loginLogStore
}

func NewLoginConsumer(store loginLogStore) *LoginConsumer {
	return &LoginConsumer{store: store}
}

func (c *LoginConsumer) Handle(ctx context.Context, body []byte) error {
	var job models.LoginLogJob
	if err := json.Unmarshal(body, &job); err != nil {
		utils.Logger.WithError(err).Error("❌ Invalid login log payload")
		return nil
	}

	log := &models.LoginLog{
		Email:     job.Email,
		IPAddress: job.IPAddress,
		UserAgent: job.UserAgent,
		Location:  job.Location,
		Success:   job.Success,
	}
	if job.UserID > 0 {
		log.UserID = sql.NullInt64{Int64: int64(job.UserID), Valid: true}
	}

	if err := c.store.Create(ctx, log); err != nil {
		return err
	}

	utils.Logger.Infof("🪵 Login attempt recorded for %s (success=%t)", job.Email, job.Success)
	return nil
}
