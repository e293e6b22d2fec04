package repositories

import (
	"context"
	"database/sql"
	"errors"

	"kobovault/internal/models"
	"kobovault/internal/wallet"
	"kobovault/pkg/utils"

	"github.com/go-sql-driver/mysql"
)

// duplicateEntry is MySQL error 1062, the unique-constraint violation.
func duplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

type RequestRepo struct {
	db *sql.DB
}

func NewRequestRepo(db *sql.DB) *RequestRepo {
	return &RequestRepo{db: db}
}

// CreatePending reserves the idempotency token. The UNIQUE constraint on
// tx_id makes this the duplicate-suppression backstop across workers.
func (r *RequestRepo) CreatePending(ctx context.Context, txID string, userID int, currency string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wallet_requests (tx_id, user_id, currency, status)
		VALUES (?, ?, ?, ?)`,
		txID, userID, currency, models.RequestPending)
	if err != nil {
		if duplicateEntry(err) {
			return wallet.ErrDuplicateToken
		}
		return utils.ErrorHandler(err, "failed to create wallet request")
	}
	return nil
}

// MarkFailed flips the request row to failed. Zero affected rows is fine:
// the failure may have happened before any row was reserved.
func (r *RequestRepo) MarkFailed(ctx context.Context, txID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE wallet_requests SET status = ?, updated_at = NOW()
		WHERE tx_id = ?`, models.RequestFailed, txID)
	if err != nil {
		return utils.ErrorHandler(err, "failed to mark wallet request failed")
	}
	return nil
}

// GetByTxID returns the request row for a token, or nil when absent.
func (r *RequestRepo) GetByTxID(ctx context.Context, txID string) (*models.WalletRequest, error) {
	var req models.WalletRequest
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tx_id, user_id, currency, status, created_at, updated_at
		FROM wallet_requests WHERE tx_id = ?`, txID).
		Scan(&req.ID, &req.TxID, &req.UserID, &req.Currency, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to fetch wallet request")
	}
	return &req, nil
}

// CreateSuccess writes a request row that is already terminal. Used by the
// synchronous wallet-creation path, which never goes through the queue.
func (r *RequestRepo) CreateSuccess(ctx context.Context, txID string, userID int, currency string) (*models.WalletRequest, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wallet_requests (tx_id, user_id, currency, status)
		VALUES (?, ?, ?, ?)`,
		txID, userID, currency, models.RequestSuccess)
	if err != nil {
		if duplicateEntry(err) {
			return nil, wallet.ErrDuplicateToken
		}
		return nil, utils.ErrorHandler(err, "failed to create wallet request")
	}
	return r.GetByTxID(ctx, txID)
}
