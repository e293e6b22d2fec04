package repositories

import (
	"context"
	"database/sql"

	"kobovault/internal/models"
	"kobovault/internal/wallet"
	"kobovault/pkg/utils"
)

type WalletRepo struct {
	db *sql.DB
}

func NewWalletRepo(db *sql.DB) *WalletRepo {
	return &WalletRepo{db: db}
}

func (r *WalletRepo) GetByID(ctx context.Context, walletID int) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, currency, balance, version, deleted_at, created_at, updated_at
		FROM wallets WHERE id = ?`, walletID).
		Scan(&w.ID, &w.UserID, &w.Currency, &w.Balance, &w.Version, &w.DeletedAt, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, wallet.ErrWalletNotFound
	}
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to fetch wallet")
	}
	return &w, nil
}

// ListLiveByUser returns the user's non-deleted wallets, newest first.
func (r *WalletRepo) ListLiveByUser(ctx context.Context, userID int) ([]models.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, currency, balance, version, deleted_at, created_at, updated_at
		FROM wallets
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list wallets")
	}
	defer rows.Close()

	var wallets []models.Wallet
	for rows.Next() {
		var w models.Wallet
		if err := rows.Scan(&w.ID, &w.UserID, &w.Currency, &w.Balance, &w.Version, &w.DeletedAt, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan wallet")
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// LiveWalletExists reports whether the user already has a non-deleted
// wallet in the given currency. At most one is allowed.
func (r *WalletRepo) LiveWalletExists(ctx context.Context, userID int, currency string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM wallets
		WHERE user_id = ? AND currency = ? AND deleted_at IS NULL`,
		userID, currency).Scan(&count)
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to check wallet existence")
	}
	return count > 0, nil
}

// Create inserts a zero-balance wallet at version 0 and returns it.
func (r *WalletRepo) Create(ctx context.Context, userID int, currency string) (*models.Wallet, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (user_id, currency, balance, version)
		VALUES (?, ?, 0, 0)`, userID, currency)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to create wallet")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to read wallet id")
	}
	return r.GetByID(ctx, int(id))
}
