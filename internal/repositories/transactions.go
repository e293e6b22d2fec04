package repositories

import (
	"context"
	"database/sql"

	"kobovault/internal/models"
	"kobovault/pkg/utils"
)

type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// ListByUser returns one page of the user's transaction history, newest
// first, plus the total row count.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID, page, limit int) ([]models.Transaction, int, error) {
	offset := (page - 1) * limit

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, wallet_id, type, amount, fee, status, reference, metadata, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, 0, utils.ErrorHandler(err, "failed to list transactions")
	}
	defer rows.Close()

	var records []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.WalletID, &t.Type, &t.Amount, &t.Fee, &t.Status, &t.Reference, &t.Metadata, &t.CreatedAt); err != nil {
			return nil, 0, utils.ErrorHandler(err, "failed to scan transaction")
		}
		records = append(records, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, utils.ErrorHandler(err, "failed to iterate transactions")
	}

	var total int
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, utils.ErrorHandler(err, "failed to count transactions")
	}
	return records, total, nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, userID, id int) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, wallet_id, type, amount, fee, status, reference, metadata, created_at
		FROM transactions WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&t.ID, &t.UserID, &t.WalletID, &t.Type, &t.Amount, &t.Fee, &t.Status, &t.Reference, &t.Metadata, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to fetch transaction")
	}
	return &t, nil
}
