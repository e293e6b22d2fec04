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

type withdrawalMutator interface {
	Withdraw(ctx context.Context, job models.WithdrawJob) (*models.Transaction, error)
}

type WithdrawalConsumer struct {
	guard   idempotencyGuard
	mutator withdrawalMutator
	wallets walletReader
	sync    cacheSyncer
	queue   notifier
}

func NewWithdrawalConsumer(guard idempotencyGuard, mutator withdrawalMutator, wallets walletReader, sync cacheSyncer, queue notifier) *WithdrawalConsumer {
	return &WithdrawalConsumer{guard: guard, mutator: mutator, wallets: wallets, sync: sync, queue: queue}
}

func (c *WithdrawalConsumer) Handle(ctx context.Context, body []byte) error {
	var job models.WithdrawJob
	if err := json.Unmarshal(body, &job); err != nil {
		return utils.ErrorHandler(err, "malformed withdraw job payload")
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

	record, err := c.mutator.Withdraw(ctx, job)
	if err != nil {
		return fail(ctx, c.guard, c.sync, job.TxID, err)
	}

	c.sync.CacheOutcome(ctx, job.TxID, models.RequestSuccess)
	c.sync.InvalidateWallets(ctx, job.UserID)
	c.sync.AppendTransaction(ctx, job.UserID, record)

	if err := c.queue.Publish(ctx, config.QueueNotifications, models.NotificationJob{
		UserID: job.UserID,
		Title:  "Wallet Withdrawn",
		Body: fmt.Sprintf("You have withdrawn ₦%s from your %s wallet.",
			job.Amount.StringFixed(2), job.Currency),
		Type: "wallet",
	}); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to enqueue withdrawal notification for user %d", job.UserID)
	}

	utils.Logger.Infof("✅ Withdrawal completed for tx %s", job.TxID)
	return nil
}
