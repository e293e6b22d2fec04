package wallet

import "errors"

var (
	// ErrWalletNotFound means the referenced wallet row does not exist.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrVersionConflict means the compare-and-swap update matched zero
	// rows: someone else won the version increment. The message fails and
	// gets a fresh read on the next delivery.
	ErrVersionConflict = errors.New("wallet version conflict")

	// ErrInsufficientFunds is fatal for the message; retrying cannot
	// change the outcome but it gets the same retry budget as everything
	// else.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateToken is the unique-constraint hit on the idempotency
	// ledger. It is not a failure: the token is owned by whichever worker
	// reserved it first.
	ErrDuplicateToken = errors.New("transaction id already exists")
)

// ValidationError covers a bad wallet reference: wrong owner, currency
// mismatch or a soft-deleted wallet.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid wallet: " + e.Reason
}
