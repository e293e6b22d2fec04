package consumers

import (
	"context"
	"testing"

	"kobovault/internal/config"
	"kobovault/internal/models"
	"kobovault/internal/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fundBody() []byte {
	return []byte(`{"userId":7,"walletId":1,"currency":"NGN","amount":500,"txId":"tx-1"}`)
}

func TestFundingSuccess(t *testing.T) {
	guard := &fakeGuard{result: wallet.Fresh}
	mutator := &fakeMutator{record: &models.Transaction{
		ID:       42,
		UserID:   7,
		WalletID: 1,
		Type:     models.TxDeposit,
		Amount:   decimal.RequireFromString("497.5"),
		Fee:      decimal.RequireFromString("2.5"),
	}}
	reader := &fakeReader{wallets: map[int]*models.Wallet{1: liveWallet(t, 1, 7, "NGN", "1000")}}
	sync := newFakeSync()
	pub := &fakePublisher{}

	consumer := NewFundingConsumer(guard, mutator, reader, sync, pub)
	err := consumer.Handle(context.Background(), fundBody())

	require.NoError(t, err)
	assert.Equal(t, 1, mutator.calls)
	assert.Equal(t, models.RequestSuccess, sync.outcomes["tx-1"])
	assert.Contains(t, sync.invalidated, 7)
	require.Len(t, sync.appended[7], 1)
	assert.Equal(t, 42, sync.appended[7][0].ID)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, config.QueueNotifications, pub.messages[0].Queue)
	note := pub.messages[0].Payload.(models.NotificationJob)
	assert.Equal(t, 7, note.UserID)
	assert.Equal(t, "Wallet Funded", note.Title)
}

func TestFundingAlreadyProcessedStopsBeforeMutating(t *testing.T) {
	tests := []struct {
		name   string
		result wallet.CheckResult
	}{
		{name: "seen success", result: wallet.SeenSuccess},
		{name: "seen failed", result: wallet.SeenFailed},
		{name: "seen pending", result: wallet.SeenPending},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			guard := &fakeGuard{result: tc.result}
			mutator := &fakeMutator{}
			sync := newFakeSync()
			pub := &fakePublisher{}

			consumer := NewFundingConsumer(guard, mutator, &fakeReader{}, sync, pub)
			err := consumer.Handle(context.Background(), fundBody())

			// Acknowledge and stop: no mutation, no notification, no error.
			require.NoError(t, err)
			assert.Zero(t, mutator.calls)
			assert.Empty(t, pub.messages)
		})
	}
}

func TestFundingInvalidWalletFailsMessage(t *testing.T) {
	tests := []struct {
		name    string
		wallets map[int]*models.Wallet
	}{
		{name: "missing wallet", wallets: map[int]*models.Wallet{}},
		{name: "wrong owner", wallets: map[int]*models.Wallet{1: liveWallet(t, 1, 99, "NGN", "1000")}},
		{name: "currency mismatch", wallets: map[int]*models.Wallet{1: liveWallet(t, 1, 7, "USD", "1000")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			guard := &fakeGuard{result: wallet.Fresh}
			mutator := &fakeMutator{}
			sync := newFakeSync()

			consumer := NewFundingConsumer(guard, mutator, &fakeReader{wallets: tc.wallets}, sync, &fakePublisher{})
			err := consumer.Handle(context.Background(), fundBody())

			require.Error(t, err)
			assert.Zero(t, mutator.calls)
			assert.Equal(t, []string{"tx-1"}, guard.failed)
			assert.Equal(t, models.RequestFailed, sync.outcomes["tx-1"])
		})
	}
}

func TestFundingMutatorFailureMarksFailedAndReRaises(t *testing.T) {
	guard := &fakeGuard{result: wallet.Fresh}
	mutator := &fakeMutator{err: wallet.ErrVersionConflict}
	reader := &fakeReader{wallets: map[int]*models.Wallet{1: liveWallet(t, 1, 7, "NGN", "1000")}}
	sync := newFakeSync()

	consumer := NewFundingConsumer(guard, mutator, reader, sync, &fakePublisher{})
	err := consumer.Handle(context.Background(), fundBody())

	assert.ErrorIs(t, err, wallet.ErrVersionConflict)
	assert.Equal(t, []string{"tx-1"}, guard.failed)
	assert.Equal(t, models.RequestFailed, sync.outcomes["tx-1"])
}

func TestFundingMalformedPayload(t *testing.T) {
	consumer := NewFundingConsumer(&fakeGuard{}, &fakeMutator{}, &fakeReader{}, newFakeSync(), &fakePublisher{})

	assert.Error(t, consumer.Handle(context.Background(), []byte(`{"amount":`)))
}

func TestFundingInvalidJobWithTokenFailsMessage(t *testing.T) {
	guard := &fakeGuard{}
	sync := newFakeSync()
	consumer := NewFundingConsumer(guard, &fakeMutator{}, &fakeReader{}, sync, &fakePublisher{})

	err := consumer.Handle(context.Background(), []byte(`{"userId":7,"walletId":1,"currency":"NGN","amount":-5,"txId":"tx-bad"}`))

	require.Error(t, err)
	assert.Equal(t, []string{"tx-bad"}, guard.failed)
	assert.Equal(t, models.RequestFailed, sync.outcomes["tx-bad"])
}
