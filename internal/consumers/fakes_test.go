package consumers

import (
	"context"
	"testing"

	"kobovault/internal/models"
	"kobovault/internal/wallet"

	"github.com/shopspring/decimal"
)

type fakeGuard struct {
	result   wallet.CheckResult
	checkErr error
	checked  []string
	failed   []string
}

func (g *fakeGuard) Check(_ context.Context, txID string, _ int, _ string) (wallet.CheckResult, error) {
	g.checked = append(g.checked, txID)
	return g.result, g.checkErr
}

func (g *fakeGuard) MarkFailed(_ context.Context, txID string) error {
	g.failed = append(g.failed, txID)
	return nil
}

type fakeReader struct {
	wallets map[int]*models.Wallet
}

func (r *fakeReader) GetByID(_ context.Context, walletID int) (*models.Wallet, error) {
	w, ok := r.wallets[walletID]
	if !ok {
		return nil, wallet.ErrWalletNotFound
	}
	return w, nil
}

type fakeSync struct {
	outcomes    map[string]string
	invalidated []int
	appended    map[int][]*models.Transaction
}

func newFakeSync() *fakeSync {
	return &fakeSync{outcomes: map[string]string{}, appended: map[int][]*models.Transaction{}}
}

func (s *fakeSync) CacheOutcome(_ context.Context, txID, status string) {
	s.outcomes[txID] = status
}

func (s *fakeSync) InvalidateWallets(_ context.Context, userID int) {
	s.invalidated = append(s.invalidated, userID)
}

func (s *fakeSync) AppendTransaction(_ context.Context, userID int, record *models.Transaction) {
	s.appended[userID] = append(s.appended[userID], record)
}

type published struct {
	Queue   string
	Payload any
}

type fakePublisher struct {
	messages []published
}

func (p *fakePublisher) Publish(_ context.Context, queue string, payload any) error {
	p.messages = append(p.messages, published{Queue: queue, Payload: payload})
	return nil
}

type fakeMutator struct {
	calls     int
	err       error
	record    *models.Transaction
	sender    *models.Transaction
	recipient *models.Transaction
}

func (m *fakeMutator) Fund(_ context.Context, _ models.FundJob) (*models.Transaction, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

func (m *fakeMutator) Withdraw(_ context.Context, _ models.WithdrawJob) (*models.Transaction, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

func (m *fakeMutator) Transfer(_ context.Context, _ models.TransferJob) (*models.Transaction, *models.Transaction, error) {
	m.calls++
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.sender, m.recipient, nil
}

func liveWallet(t *testing.T, id, userID int, currency, balance string) *models.Wallet {
	t.Helper()
	return &models.Wallet{
		ID:       id,
		UserID:   userID,
		Currency: currency,
		Balance:  decimal.RequireFromString(balance),
		Version:  1,
	}
}
