package services

import (
	"context"
	"encoding/json"
	"testing"

	"kobovault/internal/config"
	"kobovault/internal/models"
	"kobovault/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWalletStore struct {
	wallets map[int][]models.Wallet
	nextID  int
}

func (f *fakeWalletStore) ListLiveByUser(_ context.Context, userID int) ([]models.Wallet, error) {
	return f.wallets[userID], nil
}

func (f *fakeWalletStore) LiveWalletExists(_ context.Context, userID int, currency string) (bool, error) {
	for _, w := range f.wallets[userID] {
		if w.Currency == currency {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeWalletStore) Create(_ context.Context, userID int, currency string) (*models.Wallet, error) {
	f.nextID++
	w := models.Wallet{ID: f.nextID, UserID: userID, Currency: currency}
	f.wallets[userID] = append(f.wallets[userID], w)
	return &w, nil
}

type fakeRequestWriter struct {
	rows map[string]*models.WalletRequest
}

func (f *fakeRequestWriter) GetByTxID(_ context.Context, txID string) (*models.WalletRequest, error) {
	return f.rows[txID], nil
}

func (f *fakeRequestWriter) CreateSuccess(_ context.Context, txID string, userID int, currency string) (*models.WalletRequest, error) {
	if _, ok := f.rows[txID]; ok {
		return nil, wallet.ErrDuplicateToken
	}
	row := &models.WalletRequest{TxID: txID, UserID: userID, Currency: currency, Status: models.RequestSuccess}
	f.rows[txID] = row
	return row, nil
}

func newWalletService(store *fakeWalletStore, requests *fakeRequestWriter, c *fakeCache, pub *fakePublisher) *WalletService {
	return NewWalletService(store, requests, c, wallet.NewCacheSync(c), pub)
}

func TestCreateWallet(t *testing.T) {
	store := &fakeWalletStore{wallets: map[int][]models.Wallet{}}
	requests := &fakeRequestWriter{rows: map[string]*models.WalletRequest{}}
	c := newFakeCache()
	pub := &fakePublisher{}
	svc := newWalletService(store, requests, c, pub)

	created, err := svc.CreateWallet(context.Background(), 7, "NGN", "wc-1")

	require.NoError(t, err)
	assert.Equal(t, "NGN", created.Currency)
	assert.Equal(t, models.RequestSuccess, requests.rows["wc-1"].Status)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, config.QueueNotifications, pub.messages[0].Queue)
}

func TestCreateWalletDuplicateRequest(t *testing.T) {
	store := &fakeWalletStore{wallets: map[int][]models.Wallet{}}
	requests := &fakeRequestWriter{rows: map[string]*models.WalletRequest{
		"wc-1": {TxID: "wc-1", Status: models.RequestSuccess},
	}}
	svc := newWalletService(store, requests, newFakeCache(), &fakePublisher{})

	_, err := svc.CreateWallet(context.Background(), 7, "NGN", "wc-1")

	assert.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestCreateWalletOnePerCurrency(t *testing.T) {
	store := &fakeWalletStore{wallets: map[int][]models.Wallet{
		7: {{ID: 1, UserID: 7, Currency: "NGN"}},
	}}
	requests := &fakeRequestWriter{rows: map[string]*models.WalletRequest{}}
	svc := newWalletService(store, requests, newFakeCache(), &fakePublisher{})

	_, err := svc.CreateWallet(context.Background(), 7, "NGN", "wc-2")

	assert.ErrorIs(t, err, ErrWalletExists)
}

func TestCreateWalletPrependsToCachedList(t *testing.T) {
	store := &fakeWalletStore{wallets: map[int][]models.Wallet{}}
	requests := &fakeRequestWriter{rows: map[string]*models.WalletRequest{}}
	c := newFakeCache()
	cached, _ := json.Marshal([]models.Wallet{{ID: 9, UserID: 7, Currency: "USD"}})
	c.data[wallet.WalletsKey(7)] = string(cached)
	svc := newWalletService(store, requests, c, &fakePublisher{})

	created, err := svc.CreateWallet(context.Background(), 7, "NGN", "wc-3")
	require.NoError(t, err)

	var list []models.Wallet
	require.NoError(t, json.Unmarshal([]byte(c.data[wallet.WalletsKey(7)]), &list))
	require.Len(t, list, 2)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestGetUserWalletsReadThrough(t *testing.T) {
	store := &fakeWalletStore{wallets: map[int][]models.Wallet{
		7: {{ID: 1, UserID: 7, Currency: "NGN"}},
	}}
	requests := &fakeRequestWriter{rows: map[string]*models.WalletRequest{}}
	c := newFakeCache()
	svc := newWalletService(store, requests, c, &fakePublisher{})

	wallets, err := svc.GetUserWallets(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, wallets, 1)

	// Second read comes from the cache.
	store.wallets[7] = nil
	wallets, err = svc.GetUserWallets(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, wallets, 1)
}
