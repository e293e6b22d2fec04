package consumers

import (
	"context"
	"encoding/json"
	"fmt"

	"kobovault/internal/config"
	"kobovault/internal/models"
	"kobovault/internal/wallet"
	"kobovault/pkg/utils"
)

type fundingMutator interface {
	Fund(ctx context.Context, job models.FundJob) (*models.Transaction, error)
}

// FundingConsumer processes wallet_funding messages:
// received -> validating -> mutating -> succeeded | failed.
type FundingConsumer struct {
	guard   idempotencyGuard
	mutator fundingMutator
	wallets walletReader
	sync    cacheSyncer
	queue   notifier
}

func NewFundingConsumer(guard idempotencyGuard, mutator fundingMutator, wallets walletReader, sync cacheSyncer, queue notifier) *FundingConsumer {
	return &FundingConsumer{guard: guard, mutator: mutator, wallets: wallets, sync: sync, queue: queue}
}

func (c *FundingConsumer) Handle(ctx context.Context, body []byte) error {
	var job models.FundJob
	if err := json.Unmarshal(body, &job); err != nil {
		return utils.ErrorHandler(err, "malformed fund job payload")
	}
	if err := job.Validate(); err != nil {
		if job.TxID == "" {
			return err
		}
		return fail(ctx, c.guard, c.sync, job.TxID, err)
	}

	result, err := c.guard.Check(ctx, job.TxID, job.UserID, job.Currency)
	if err != nil {
		return err
	}
	if result != wallet.Fresh {
		utils.Logger.Infof("⛔ txId %s already processed (%s), skipping", job.TxID, result)
		return nil
	}

	w, err := c.wallets.GetByID(ctx, job.WalletID)
	if err != nil && err != wallet.ErrWalletNotFound {
		return fail(ctx, c.guard, c.sync, job.TxID, err)
	}
	if err == nil {
		err = wallet.ValidateWallet(w, job.UserID, job.Currency)
	}
	if err != nil {
		return fail(ctx, c.guard, c.sync, job.TxID, err)
	}

	record, err := c.mutator.Fund(ctx, job)
	if err != nil {
		return fail(ctx, c.guard, c.sync, job.TxID, err)
	}

	c.sync.CacheOutcome(ctx, job.TxID, models.RequestSuccess)
	c.sync.InvalidateWallets(ctx, job.UserID)
	c.sync.AppendTransaction(ctx, job.UserID, record)

	if err := c.queue.Publish(ctx, config.QueueNotifications, models.NotificationJob{
		UserID: job.UserID,
		Title:  "Wallet Funded",
		Body: fmt.Sprintf("Your %s wallet has been funded with ₦%s (₦%s fee applied).",
			job.Currency, record.Amount.StringFixed(2), record.Fee.StringFixed(2)),
		Type: "wallet",
	}); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to enqueue funding notification for user %d", job.UserID)
	}

	utils.Logger.Infof("✅ Wallet funded for user %d (tx %s)", job.UserID, job.TxID)
	return nil
}
