package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

const (
	TxDeposit     = "DEPOSIT"
	TxWithdrawal  = "WITHDRAWAL"
	TxTransferOut = "TRANSFER_OUT"
	TxTransferIn  = "TRANSFER_IN"
)

// Transaction rows are immutable once written.
type Transaction struct {
	ID        int             `json:"id,omitempty" db:"id,omitempty"`
	UserID    int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	WalletID  int             `json:"wallet_id,omitempty" db:"wallet_id,omitempty"`
	Type      string          `json:"type,omitempty" db:"type,omitempty"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Fee       decimal.Decimal `json:"fee" db:"fee"`
	Status    string          `json:"status,omitempty" db:"status,omitempty"`
	Reference string          `json:"reference,omitempty" db:"reference,omitempty"`
	Metadata  sql.NullString  `json:"metadata,omitempty" db:"metadata,omitempty"`
	CreatedAt sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
