package wallet

import (
	"context"
	"encoding/json"
	"errors"

	"kobovault/internal/cache"
	"kobovault/internal/models"
	"kobovault/pkg/utils"
)

// CacheSync reconciles the read-through caches after a durable write. All
// of it is best effort: cache writes never block or gate the durable
// write, and a missing cache entry is always safe.
type CacheSync struct {
	cache Cache
}

func NewCacheSync(c Cache) *CacheSync {
	return &CacheSync{cache: c}
}

// CacheOutcome records the terminal status for a token so later
// re-deliveries short-circuit purely from cache.
func (s *CacheSync) CacheOutcome(ctx context.Context, txID, status string) {
	val, _ := json.Marshal(cachedOutcome{Status: status})
	if err := s.cache.Set(ctx, RequestKey(txID), string(val), CacheTTL); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to cache outcome for %s", txID)
	}
}

// InvalidateWallets drops the owner's wallet-list cache so the next read
// comes from the store.
func (s *CacheSync) InvalidateWallets(ctx context.Context, userID int) {
	if err := s.cache.Del(ctx, WalletsKey(userID)); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to invalidate wallet cache for user %d", userID)
	}
}

// AppendTransaction prepends the new record to the owner's cached
// transaction list, only if one already exists. No forced refresh.
func (s *CacheSync) AppendTransaction(ctx context.Context, userID int, record *models.Transaction) {
	key := TransactionsKey(userID)
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			utils.Logger.WithError(err).Warnf("Failed to read transaction cache for user %d", userID)
		}
		return
	}

	var records []models.Transaction
	if err := json.Unmarshal([]byte(val), &records); err != nil {
		utils.Logger.WithError(err).Warnf("Dropping unreadable transaction cache for user %d", userID)
		s.cache.Del(ctx, key)
		return
	}

	records = append([]models.Transaction{*record}, records...)
	encoded, _ := json.Marshal(records)
	if err := s.cache.Set(ctx, key, string(encoded), CacheTTL); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to update transaction cache for user %d", userID)
	}
}

// AppendWallet prepends a freshly created wallet to an existing cached
// wallet list, if present.
func (s *CacheSync) AppendWallet(ctx context.Context, userID int, w *models.Wallet) {
	key := WalletsKey(userID)
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			utils.Logger.WithError(err).Warnf("Failed to read wallet cache for user %d", userID)
		}
		return
	}

	var wallets []models.Wallet
	if err := json.Unmarshal([]byte(val), &wallets); err != nil {
		utils.Logger.WithError(err).Warnf("Dropping unreadable wallet cache for user %d", userID)
		s.cache.Del(ctx, key)
		return
	}

	wallets = append([]models.Wallet{*w}, wallets...)
	encoded, _ := json.Marshal(wallets)
	if err := s.cache.Set(ctx, key, string(encoded), CacheTTL); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to update wallet cache for user %d", userID)
	}
}
