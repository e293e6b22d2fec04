package wallet

import "kobovault/internal/models"

// ValidateWallet enforces ownership, currency match and liveness. Balance
// sufficiency is not checked here; that belongs to the mutation so it
// always runs against a fresh read inside the mutation's own transaction.
func ValidateWallet(w *models.Wallet, userID int, currency string) error {
	if w == nil {
		return ErrWalletNotFound
	}
	if w.UserID != userID {
		return &ValidationError{Reason: "wallet does not belong to user"}
	}
	if w.Currency != currency {
		return &ValidationError{Reason: "wallet currency mismatch"}
	}
	if !w.Live() {
		return &ValidationError{Reason: "wallet has been deleted"}
	}
	return nil
}
