package wallet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"kobovault/internal/models"
	"kobovault/pkg/utils"

	"github.com/shopspring/decimal"
)

// LedgerMutator applies balance deltas under optimistic concurrency. Every
// mutation is one atomic unit: the version-checked balance update(s), one
// transaction record per leg, and the wallet_requests flip to success all
// commit together or not at all. A CAS miss surfaces as ErrVersionConflict
// and the whole message fails; the mutator never retries internally, so
// each attempt's read-then-write stays atomic.
type LedgerMutator struct {
	db *sql.DB
}

func NewLedgerMutator(db *sql.DB) *LedgerMutator {
	return &LedgerMutator{db: db}
}

// Fund credits a wallet with amount minus the 0.5% funding fee and records
// a DEPOSIT transaction carrying the fee.
func (m *LedgerMutator) Fund(ctx context.Context, job models.FundJob) (*models.Transaction, error) {
	fee := FundingFee(job.Amount)
	net := job.Amount.Sub(fee)

	var record *models.Transaction
	err := m.withTx(ctx, func(tx *sql.Tx) error {
		w, err := readWallet(ctx, tx, job.WalletID)
		if err != nil {
			return err
		}
		if err := ValidateWallet(w, job.UserID, job.Currency); err != nil {
			return err
		}

		if err := applyDelta(ctx, tx, w.ID, net, w.Version); err != nil {
			return err
		}
		if err := markRequestSuccess(ctx, tx, job.TxID); err != nil {
			return err
		}

		record, err = insertTransaction(ctx, tx, &models.Transaction{
			UserID:    job.UserID,
			WalletID:  job.WalletID,
			Type:      models.TxDeposit,
			Amount:    net,
			Fee:       fee,
			Status:    "success",
			Reference: job.TxID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Withdraw debits a wallet by the full amount. The balance precondition is
// checked against the fresh read inside this transaction, never a stale one.
func (m *LedgerMutator) Withdraw(ctx context.Context, job models.WithdrawJob) (*models.Transaction, error) {
	var record *models.Transaction
	err := m.withTx(ctx, func(tx *sql.Tx) error {
		w, err := readWallet(ctx, tx, job.WalletID)
		if err != nil {
			return err
		}
		if err := ValidateWallet(w, job.UserID, job.Currency); err != nil {
			return err
		}
		if w.Balance.LessThan(job.Amount) {
			return ErrInsufficientFunds
		}

		if err := applyDelta(ctx, tx, w.ID, job.Amount.Neg(), w.Version); err != nil {
			return err
		}
		if err := markRequestSuccess(ctx, tx, job.TxID); err != nil {
			return err
		}

		record, err = insertTransaction(ctx, tx, &models.Transaction{
			UserID:    job.UserID,
			WalletID:  job.WalletID,
			Type:      models.TxWithdrawal,
			Amount:    job.Amount,
			Fee:       decimal.Zero,
			Status:    "success",
			Reference: job.TxID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Transfer debits the sender and credits the recipient as two legs of one
// atomic unit; both succeed or neither does. The two records share the
// token with distinct suffixes.
func (m *LedgerMutator) Transfer(ctx context.Context, job models.TransferJob) (*models.Transaction, *models.Transaction, error) {
	var senderRecord, recipientRecord *models.Transaction
	err := m.withTx(ctx, func(tx *sql.Tx) error {
		sender, err := readWallet(ctx, tx, job.SenderWalletID)
		if err != nil {
			return err
		}
		if err := ValidateWallet(sender, job.SenderID, job.Currency); err != nil {
			return err
		}

		recipient, err := readWallet(ctx, tx, job.RecipientWalletID)
		if err != nil {
			return err
		}
		if err := ValidateWallet(recipient, job.RecipientID, job.Currency); err != nil {
			return err
		}

		if sender.Balance.LessThan(job.Amount) {
			return ErrInsufficientFunds
		}

		if err := applyDelta(ctx, tx, sender.ID, job.Amount.Neg(), sender.Version); err != nil {
			return err
		}
		if err := applyDelta(ctx, tx, recipient.ID, job.Amount, recipient.Version); err != nil {
			return err
		}

		senderMeta, _ := json.Marshal(map[string]int{"to": job.RecipientWalletID})
		senderRecord, err = insertTransaction(ctx, tx, &models.Transaction{
			UserID:    job.SenderID,
			WalletID:  job.SenderWalletID,
			Type:      models.TxTransferOut,
			Amount:    job.Amount,
			Fee:       decimal.Zero,
			Status:    "success",
			Reference: job.TxID + "-sender",
			Metadata:  sql.NullString{String: string(senderMeta), Valid: true},
		})
		if err != nil {
			return err
		}

		recipientMeta, _ := json.Marshal(map[string]int{"from": job.SenderWalletID})
		recipientRecord, err = insertTransaction(ctx, tx, &models.Transaction{
			UserID:    job.RecipientID,
			WalletID:  job.RecipientWalletID,
			Type:      models.TxTransferIn,
			Amount:    job.Amount,
			Fee:       decimal.Zero,
			Status:    "success",
			Reference: job.TxID + "-recipient",
			Metadata:  sql.NullString{String: string(recipientMeta), Valid: true},
		})
		if err != nil {
			return err
		}

		return markRequestSuccess(ctx, tx, job.TxID)
	})
	if err != nil {
		return nil, nil, err
	}
	return senderRecord, recipientRecord, nil
}

func (m *LedgerMutator) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return utils.ErrorHandler(err, "failed to start transaction")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return utils.ErrorHandler(err, "failed to commit transaction")
	}
	return nil
}

func readWallet(ctx context.Context, tx *sql.Tx, walletID int) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.QueryRowContext(ctx, `
		SELECT id, user_id, currency, balance, version, deleted_at
		FROM wallets WHERE id = ?`, walletID).
		Scan(&w.ID, &w.UserID, &w.Currency, &w.Balance, &w.Version, &w.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to read wallet")
	}
	return &w, nil
}

// applyDelta is the compare-and-swap write: it matches on id AND the
// version read at transaction start, and zero affected rows signals a
// concurrent modification.
func applyDelta(ctx context.Context, tx *sql.Tx, walletID int, delta decimal.Decimal, expectedVersion int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE wallets
		SET balance = balance + ?, version = version + 1, updated_at = NOW()
		WHERE id = ? AND version = ?`,
		delta, walletID, expectedVersion)
	if err != nil {
		return utils.ErrorHandler(err, "failed to update wallet balance")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return utils.ErrorHandler(err, "failed to read affected rows")
	}
	if affected == 0 {
		return fmt.Errorf("wallet %d at version %d: %w", walletID, expectedVersion, ErrVersionConflict)
	}
	return nil
}

func markRequestSuccess(ctx context.Context, tx *sql.Tx, txID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE wallet_requests SET status = ?, updated_at = NOW()
		WHERE tx_id = ?`, models.RequestSuccess, txID)
	if err != nil {
		return utils.ErrorHandler(err, "failed to mark wallet request success")
	}
	return nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, record *models.Transaction) (*models.Transaction, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (user_id, wallet_id, type, amount, fee, status, reference, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.UserID, record.WalletID, record.Type, record.Amount, record.Fee,
		record.Status, record.Reference, record.Metadata)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to record transaction")
	}
	id, err := res.LastInsertId()
	if err == nil {
		record.ID = int(id)
	}
	return record, nil
}
