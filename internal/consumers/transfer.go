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

type transferMutator interface {
	Transfer(ctx context.Context, job models.TransferJob) (*models.Transaction, *models.Transaction, error)
}

// TransferConsumer moves money between two wallets. The debit and credit
// are two legs of one atomic unit inside the mutator: both succeed or
// neither does.
type TransferConsumer struct {
	guard   idempotencyGuard
	mutator transferMutator
	wallets walletReader
	sync    cacheSyncer
	queue   notifier
}

func NewTransferConsumer(guard idempotencyGuard, mutator transferMutator, wallets walletReader, sync cacheSyncer, queue notifier) *TransferConsumer {
	return &TransferConsumer{guard: guard, mutator: mutator, wallets: wallets, sync: sync, queue: queue}
}

func (c *TransferConsumer) Handle(ctx context.Context, body []byte) error {
	var job models.TransferJob
	if err := json.Unmarshal(body, &job); err != nil {
		return utils.ErrorHandler(err, "malformed transfer job payload")
	}
	if err := job.Validate(); err != nil {
		if job.TxID == "" {
			return err
		}
		return fail(ctx, c.guard, c.sync, job.TxID, err)
	}

	result, err := c.guard.Check(ctx, job.TxID, job.SenderID, job.Currency)
	if err != nil {
		return err
	}
	if result != wallet.Fresh {
		utils.Logger.Infof("⛔ txId %s already processed (%s), skipping", job.TxID, result)
		return nil
	}

	if err := c.validateWallets(ctx, &job); err != nil {
		return fail(ctx, c.guard, c.sync, job.TxID, err)
	}

	senderRecord, recipientRecord, err := c.mutator.Transfer(ctx, job)
	if err != nil {
		return fail(ctx, c.guard, c.sync, job.TxID, err)
	}

	c.sync.CacheOutcome(ctx, job.TxID, models.RequestSuccess)
	c.sync.InvalidateWallets(ctx, job.SenderID)
	c.sync.InvalidateWallets(ctx, job.RecipientID)
	c.sync.AppendTransaction(ctx, job.SenderID, senderRecord)
	c.sync.AppendTransaction(ctx, job.RecipientID, recipientRecord)

	c.notify(ctx, job.SenderID, "Transfer Successful",
		fmt.Sprintf("₦%s was sent to user %d", job.Amount.StringFixed(2), job.RecipientID))
	c.notify(ctx, job.RecipientID, "Wallet Credited",
		fmt.Sprintf("₦%s was received from user %d", job.Amount.StringFixed(2), job.SenderID))

	utils.Logger.Infof("✅ Wallet transfer completed: %s", job.TxID)
	return nil
}

func (c *TransferConsumer) validateWallets(ctx context.Context, job *models.TransferJob) error {
	sender, err := c.wallets.GetByID(ctx, job.SenderWalletID)
	if err != nil && err != wallet.ErrWalletNotFound {
		return err
	}
	if err == nil {
		err = wallet.ValidateWallet(sender, job.SenderID, job.Currency)
	}
	if err != nil {
		return fmt.Errorf("sender: %w", err)
	}

	recipient, err := c.wallets.GetByID(ctx, job.RecipientWalletID)
	if err != nil && err != wallet.ErrWalletNotFound {
		return err
	}
	if err == nil {
		err = wallet.ValidateWallet(recipient, job.RecipientID, job.Currency)
	}
	if err != nil {
		return fmt.Errorf("recipient: %w", err)
	}
	return nil
}

func (c *TransferConsumer) notify(ctx context.Context, userID int, title, body string) {
	err := c.queue.Publish(ctx, config.QueueNotifications, models.NotificationJob{
		UserID: userID,
		Title:  title,
		Body:   body,
		Type:   "wallet",
	})
	if err != nil {
		utils.Logger.WithError(err).Warnf("Failed to enqueue transfer notification for user %d", userID)
	}
}
