package wallet

import (
	"context"
	"fmt"
	"time"
)

// CacheTTL bounds every cache entry this service writes. Entries are
// ephemeral and reconstructable; the durable store is authoritative.
const CacheTTL = 300 * time.Second

func RequestKey(txID string) string {
	return "wallet_request:" + txID
}

func WalletsKey(userID int) string {
	return fmt.Sprintf("user_wallets:%d", userID)
}

func TransactionsKey(userID int) string {
	return fmt.Sprintf("user:transactions:%d", userID)
}

func ProfileKey(userID int) string {
	return fmt.Sprintf("user:profile:%d", userID)
}

// Cache is the slice of the cache store this package needs: plain string
// keys, get / set-with-TTL / delete, no transactional semantics assumed.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
