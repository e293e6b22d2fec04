package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"kobovault/internal/cache"
	"kobovault/internal/config"
	"kobovault/internal/models"
	"kobovault/internal/queue"
	"kobovault/internal/wallet"
	"kobovault/pkg/utils"
)

var (
	ErrDuplicateRequest = errors.New("duplicate wallet creation request")
	ErrWalletExists     = errors.New("wallet for this currency already exists")
)

type walletStore interface {
	ListLiveByUser(ctx context.Context, userID int) ([]models.Wallet, error)
	LiveWalletExists(ctx context.Context, userID int, currency string) (bool, error)
	Create(ctx context.Context, userID int, currency string) (*models.Wallet, error)
}

type requestWriter interface {
	GetByTxID(ctx context.Context, txID string) (*models.WalletRequest, error)
	CreateSuccess(ctx context.Context, txID string, userID int, currency string) (*models.WalletRequest, error)
}

// WalletService owns the synchronous wallet lifecycle: creation (which
// never goes through the queue) and the cached list read.
type WalletService struct {
	wallets   walletStore
	requests  requestWriter
	cache     wallet.Cache
	sync      *wallet.CacheSync
	publisher queue.Publisher
}

func NewWalletService(wallets walletStore, requests requestWriter, c wallet.Cache, sync *wallet.CacheSync, publisher queue.Publisher) *WalletService {
	return &WalletService{wallets: wallets, requests: requests, cache: c, sync: sync, publisher: publisher}
}

// CreateWallet creates one non-deleted wallet per (owner, currency),
// guarded by the same idempotency ledger as the async operations.
func (s *WalletService) CreateWallet(ctx context.Context, userID int, currency, txID string) (*models.Wallet, error) {
	key := wallet.RequestKey(txID)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var req models.WalletRequest
		if json.Unmarshal([]byte(cached), &req) == nil && req.Status == models.RequestSuccess {
			return nil, ErrDuplicateRequest
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		utils.Logger.WithError(err).Warnf("Wallet-create cache lookup failed for %s", txID)
	}

	existing, err := s.requests.GetByTxID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == models.RequestSuccess {
		encoded, _ := json.Marshal(existing)
		if err := s.cache.Set(ctx, key, string(encoded), wallet.CacheTTL); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to cache duplicate request %s", txID)
		}
		return nil, ErrDuplicateRequest
	}

	exists, err := s.wallets.LiveWalletExists(ctx, userID, currency)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrWalletExists
	}

	w, err := s.wallets.Create(ctx, userID, currency)
	if err != nil {
		return nil, err
	}

	request, err := s.requests.CreateSuccess(ctx, txID, userID, currency)
	if err != nil {
		if errors.Is(err, wallet.ErrDuplicateToken) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}

	encoded, _ := json.Marshal(request)
	if err := s.cache.Set(ctx, key, string(encoded), wallet.CacheTTL); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to cache wallet request %s", txID)
	}

	if err := s.publisher.Publish(ctx, config.QueueNotifications, models.NotificationJob{
		UserID: userID,
		Title:  "Wallet Created",
		Body:   fmt.Sprintf("Your %s wallet has been created.", currency),
		Type:   "wallet",
	}); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to enqueue wallet-created notification for user %d", userID)
	}

	s.sync.AppendWallet(ctx, userID, w)

	// The cached profile embeds the wallet list; drop it so the next
	// profile read picks up the new wallet.
	if err := s.cache.Del(ctx, wallet.ProfileKey(userID)); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to invalidate profile cache for user %d", userID)
	}
	return w, nil
}

// GetUserWallets is a read-through over the user_wallets cache.
func (s *WalletService) GetUserWallets(ctx context.Context, userID int) ([]models.Wallet, error) {
	key := wallet.WalletsKey(userID)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var wallets []models.Wallet
		if json.Unmarshal([]byte(cached), &wallets) == nil {
			return wallets, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		utils.Logger.WithError(err).Warnf("Wallet-list cache lookup failed for user %d", userID)
	}

	wallets, err := s.wallets.ListLiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	encoded, _ := json.Marshal(wallets)
	if err := s.cache.Set(ctx, key, string(encoded), wallet.CacheTTL); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to cache wallet list for user %d", userID)
	}
	return wallets, nil
}
