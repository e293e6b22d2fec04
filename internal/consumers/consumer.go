package consumers

import (
	"context"

	"kobovault/internal/models"
	"kobovault/internal/wallet"
	"kobovault/pkg/utils"
)

// The consumers depend on narrow interfaces so each state machine can be
// exercised without a database or broker behind it.

type idempotencyGuard interface {
	Check(ctx context.Context, txID string, userID int, currency string) (wallet.CheckResult, error)
	MarkFailed(ctx context.Context, txID string) error
}

type walletReader interface {
	GetByID(ctx context.Context, walletID int) (*models.Wallet, error)
}

type cacheSyncer interface {
	CacheOutcome(ctx context.Context, txID, status string)
	InvalidateWallets(ctx context.Context, userID int)
	AppendTransaction(ctx context.Context, userID int, record *models.Transaction)
}

type notifier interface {
	Publish(ctx context.Context, queue string, payload any) error
}

// fail is the shared FAILED path: best-effort flip of the request row
// (tolerant if no row was ever reserved), cache the terminal outcome, then
// re-raise the error to the retry router.
func fail(ctx context.Context, guard idempotencyGuard, sync cacheSyncer, txID string, cause error) error {
	if err := guard.MarkFailed(ctx, txID); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to mark request %s failed", txID)
	}
	sync.CacheOutcome(ctx, txID, models.RequestFailed)
	return cause
}
