package wallet

import (
	"context"
	"testing"

	"kobovault/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var walletColumns = []string{"id", "user_id", "currency", "balance", "version", "deleted_at"}

func newMutator(t *testing.T) (*LedgerMutator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLedgerMutator(db), mock
}

func TestFundCommitsOneAtomicUnit(t *testing.T) {
	m, mock := newMutator(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, currency, balance, version, deleted_at FROM wallets").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(1, 7, "NGN", "1000.00", 3, nil))
	mock.ExpectExec("UPDATE wallets").
		WithArgs(sqlmock.AnyArg(), 1, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE wallet_requests").
		WithArgs(models.RequestSuccess, "tx-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(7, 1, models.TxDeposit, sqlmock.AnyArg(), sqlmock.AnyArg(), "success", "tx-1", nil).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	record, err := m.Fund(context.Background(), models.FundJob{
		UserID: 7, WalletID: 1, Currency: "NGN",
		Amount: decimal.RequireFromString("500.00"), TxID: "tx-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 42, record.ID)
	assert.True(t, record.Amount.Equal(decimal.RequireFromString("497.50")), "net = %s", record.Amount)
	assert.True(t, record.Fee.Equal(decimal.RequireFromString("2.50")), "fee = %s", record.Fee)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFundVersionConflictRollsBack(t *testing.T) {
	m, mock := newMutator(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, currency, balance, version, deleted_at FROM wallets").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(1, 7, "NGN", "1000.00", 3, nil))
	// A concurrent writer already bumped the version: the CAS matches
	// nothing and everything in the transaction unwinds.
	mock.ExpectExec("UPDATE wallets").
		WithArgs(sqlmock.AnyArg(), 1, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := m.Fund(context.Background(), models.FundJob{
		UserID: 7, WalletID: 1, Currency: "NGN",
		Amount: decimal.RequireFromString("500.00"), TxID: "tx-1",
	})

	assert.ErrorIs(t, err, ErrVersionConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawInsufficientFundsUsesFreshRead(t *testing.T) {
	m, mock := newMutator(t)

	// The balance precondition runs against the read inside this
	// transaction; no balance update is ever attempted.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, currency, balance, version, deleted_at FROM wallets").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(1, 7, "NGN", "50.00", 3, nil))
	mock.ExpectRollback()

	_, err := m.Withdraw(context.Background(), models.WithdrawJob{
		UserID: 7, WalletID: 1, Currency: "NGN",
		Amount: decimal.RequireFromString("100.00"), TxID: "tx-1",
	})

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawDebitsFullAmount(t *testing.T) {
	m, mock := newMutator(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, currency, balance, version, deleted_at FROM wallets").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(1, 7, "NGN", "500.00", 3, nil))
	mock.ExpectExec("UPDATE wallets").
		WithArgs(decimal.RequireFromString("100.00").Neg(), 1, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE wallet_requests").
		WithArgs(models.RequestSuccess, "tx-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(7, 1, models.TxWithdrawal, sqlmock.AnyArg(), sqlmock.AnyArg(), "success", "tx-1", nil).
		WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectCommit()

	record, err := m.Withdraw(context.Background(), models.WithdrawJob{
		UserID: 7, WalletID: 1, Currency: "NGN",
		Amount: decimal.RequireFromString("100.00"), TxID: "tx-1",
	})

	require.NoError(t, err)
	assert.True(t, record.Amount.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, record.Fee.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferCommitsBothLegsTogether(t *testing.T) {
	m, mock := newMutator(t)
	amount := decimal.RequireFromString("100.00")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, currency, balance, version, deleted_at FROM wallets").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(1, 7, "NGN", "500.00", 2, nil))
	mock.ExpectQuery("SELECT id, user_id, currency, balance, version, deleted_at FROM wallets").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(2, 8, "NGN", "100.00", 5, nil))
	// The debit and credit carry the same amount with opposite signs.
	mock.ExpectExec("UPDATE wallets").
		WithArgs(amount.Neg(), 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE wallets").
		WithArgs(amount, 2, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(7, 1, models.TxTransferOut, sqlmock.AnyArg(), sqlmock.AnyArg(), "success", "tx-9-sender", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(50, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(8, 2, models.TxTransferIn, sqlmock.AnyArg(), sqlmock.AnyArg(), "success", "tx-9-recipient", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(51, 1))
	mock.ExpectExec("UPDATE wallet_requests").
		WithArgs(models.RequestSuccess, "tx-9").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	senderRecord, recipientRecord, err := m.Transfer(context.Background(), models.TransferJob{
		SenderID: 7, SenderWalletID: 1,
		RecipientID: 8, RecipientWalletID: 2,
		Amount: amount, Currency: "NGN", TxID: "tx-9",
	})

	require.NoError(t, err)
	assert.Equal(t, "tx-9-sender", senderRecord.Reference)
	assert.Equal(t, "tx-9-recipient", recipientRecord.Reference)
	assert.True(t, senderRecord.Amount.Equal(recipientRecord.Amount))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferSecondLegConflictLeavesNoPartialWrites(t *testing.T) {
	m, mock := newMutator(t)
	amount := decimal.RequireFromString("100.00")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, currency, balance, version, deleted_at FROM wallets").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(1, 7, "NGN", "500.00", 2, nil))
	mock.ExpectQuery("SELECT id, user_id, currency, balance, version, deleted_at FROM wallets").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(2, 8, "NGN", "100.00", 5, nil))
	mock.ExpectExec("UPDATE wallets").
		WithArgs(amount.Neg(), 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The credit loses the version race: the already-applied debit must
	// roll back with it, leaving neither leg recorded.
	mock.ExpectExec("UPDATE wallets").
		WithArgs(amount, 2, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	senderRecord, recipientRecord, err := m.Transfer(context.Background(), models.TransferJob{
		SenderID: 7, SenderWalletID: 1,
		RecipientID: 8, RecipientWalletID: 2,
		Amount: amount, Currency: "NGN", TxID: "tx-9",
	})

	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Nil(t, senderRecord)
	assert.Nil(t, recipientRecord)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferInsufficientSenderBalance(t *testing.T) {
	m, mock := newMutator(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, currency, balance, version, deleted_at FROM wallets").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(1, 7, "NGN", "20.00", 2, nil))
	mock.ExpectQuery("SELECT id, user_id, currency, balance, version, deleted_at FROM wallets").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(2, 8, "NGN", "100.00", 5, nil))
	mock.ExpectRollback()

	_, _, err := m.Transfer(context.Background(), models.TransferJob{
		SenderID: 7, SenderWalletID: 1,
		RecipientID: 8, RecipientWalletID: 2,
		Amount: decimal.RequireFromString("100.00"), Currency: "NGN", TxID: "tx-9",
	})

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	require.NoError(t, mock.ExpectationsWereMet())
}
