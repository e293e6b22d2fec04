package models

import "database/sql"

const (
	RequestPending = "pending"
	RequestSuccess = "success"
	RequestFailed  = "failed"
)

// WalletRequest is the idempotency ledger. TxID carries a UNIQUE constraint,
// which is the ultimate duplicate-suppression backstop. Status moves
// pending -> success | failed exactly once.
type WalletRequest struct {
	ID        int            `json:"id,omitempty" db:"id,omitempty"`
	TxID      string         `json:"tx_id,omitempty" db:"tx_id,omitempty"`
	UserID    int            `json:"user_id,omitempty" db:"user_id,omitempty"`
	Currency  string         `json:"currency,omitempty" db:"currency,omitempty"`
	Status    string         `json:"status,omitempty" db:"status,omitempty"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt sql.NullString `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

func TerminalStatus(status string) bool {
	return status == RequestSuccess || status == RequestFailed
}
