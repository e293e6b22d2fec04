package wallet

import (
	"database/sql"
	"testing"

	"kobovault/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateWallet(t *testing.T) {
	live := func() *models.Wallet {
		return &models.Wallet{ID: 1, UserID: 7, Currency: "NGN"}
	}

	t.Run("valid wallet", func(t *testing.T) {
		assert.NoError(t, ValidateWallet(live(), 7, "NGN"))
	})

	t.Run("missing wallet", func(t *testing.T) {
		assert.ErrorIs(t, ValidateWallet(nil, 7, "NGN"), ErrWalletNotFound)
	})

	t.Run("wrong owner", func(t *testing.T) {
		err := ValidateWallet(live(), 8, "NGN")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("currency mismatch", func(t *testing.T) {
		err := ValidateWallet(live(), 7, "USD")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("soft deleted", func(t *testing.T) {
		w := live()
		w.DeletedAt = sql.NullString{String: "2025-01-01 00:00:00", Valid: true}
		err := ValidateWallet(w, 7, "NGN")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
