package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID        int             `json:"id,omitempty" db:"id,omitempty"`
	UserID    int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Currency  string          `json:"currency,omitempty" db:"currency,omitempty"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	Version   int             `json:"version" db:"version"`
	DeletedAt sql.NullString  `json:"deleted_at,omitempty" db:"deleted_at,omitempty"`
	CreatedAt sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

// Live reports whether the wallet is usable, i.e. not soft deleted.
func (w *Wallet) Live() bool {
	return !w.DeletedAt.Valid
}
