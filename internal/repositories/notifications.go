package repositories

import (
	"context"
	"database/sql"

	"kobovault/internal/models"
	"kobovault/pkg/utils"
)

type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (user_id, title, body, type)
		VALUES (?, ?, ?, ?)`, n.UserID, n.Title, n.Body, n.Type)
	if err != nil {
		return utils.ErrorHandler(err, "failed to save notification")
	}
	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID, page, limit int) ([]models.Notification, int, error) {
	offset := (page - 1) * limit

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, body, type, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, 0, utils.ErrorHandler(err, "failed to list notifications")
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Type, &n.CreatedAt); err != nil {
			return nil, 0, utils.ErrorHandler(err, "failed to scan notification")
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, utils.ErrorHandler(err, "failed to iterate notifications")
	}

	var total int
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, utils.ErrorHandler(err, "failed to count notifications")
	}
	return notifications, total, nil
}

type LoginLogRepo struct {
	db *sql.DB
}

func NewLoginLogRepo(db *sql.DB) *LoginLogRepo {
	return &LoginLogRepo{db: db}
}

func (r *LoginLogRepo) Create(ctx context.Context, log *models.LoginLog) error {
	var userID sql.NullInt64
	if log.UserID.Valid {
		userID = log.UserID
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_logs (user_id, email, ip_address, user_agent, location, success)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, log.Email, log.IPAddress, log.UserAgent, log.Location, log.Success)
	if err != nil {
		return utils.ErrorHandler(err, "failed to save login log")
	}
	return nil
}

func (r *LoginLogRepo) ListByUser(ctx context.Context, userID, page, limit int) ([]models.LoginLog, int, error) {
	offset := (page - 1) * limit

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, email, ip_address, user_agent, location, success, logged_in_at
		FROM login_logs
		WHERE user_id = ?
		ORDER BY logged_in_at DESC
		LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, 0, utils.ErrorHandler(err, "failed to list login logs")
	}
	defer rows.Close()

	var logs []models.LoginLog
	for rows.Next() {
		var l models.LoginLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Email, &l.IPAddress, &l.UserAgent, &l.Location, &l.Success, &l.LoggedInAt); err != nil {
			return nil, 0, utils.ErrorHandler(err, "failed to scan login log")
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, utils.ErrorHandler(err, "failed to iterate login logs")
	}

	var total int
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM login_logs WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, utils.ErrorHandler(err, "failed to count login logs")
	}
	return logs, total, nil
}
