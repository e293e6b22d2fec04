package wallet

import (
	"context"
	"encoding/json"
	"errors"

	"kobovault/internal/cache"
	"kobovault/internal/models"
	"kobovault/pkg/utils"
)

// CheckResult is the outcome of inspecting an idempotency token.
type CheckResult int

const (
	// Fresh means the caller now exclusively owns the reserved pending
	// row until it writes a terminal status.
	Fresh CheckResult = iota
	// SeenPending means another worker already owns the token.
	SeenPending
	SeenSuccess
	SeenFailed
)

func (r CheckResult) String() string {
	switch r {
	case Fresh:
		return "fresh"
	case SeenPending:
		return "pending"
	case SeenSuccess:
		return "success"
	case SeenFailed:
		return "failed"
	}
	return "unknown"
}

// RequestStore is the durable side of the idempotency ledger.
type RequestStore interface {
	// CreatePending inserts a pending row for the token and returns
	// ErrDuplicateToken when the unique constraint fires.
	CreatePending(ctx context.Context, txID string, userID int, currency string) error
	// MarkFailed flips the token's row to failed. It is tolerant of a row
	// that was never reserved.
	MarkFailed(ctx context.Context, txID string) error
}

// IdempotencyGuard gates entry into a consumer: a fast cache lookup backed
// by a unique-constrained insert on the wallet_requests ledger. The cache
// is only an optimization; the insert is the real backstop.
type IdempotencyGuard struct {
	requests RequestStore
	cache    Cache
}

func NewIdempotencyGuard(requests RequestStore, c Cache) *IdempotencyGuard {
	return &IdempotencyGuard{requests: requests, cache: c}
}

type cachedOutcome struct {
	Status string `json:"status"`
}

// Check resolves a token to Fresh, SeenPending, SeenSuccess or SeenFailed.
// A terminal cache entry short-circuits without touching the store; a
// non-terminal entry is discarded as stale and the durable reservation
// decides.
func (g *IdempotencyGuard) Check(ctx context.Context, txID string, userID int, currency string) (CheckResult, error) {
	val, err := g.cache.Get(ctx, RequestKey(txID))
	if err == nil {
		var outcome cachedOutcome
		if jsonErr := json.Unmarshal([]byte(val), &outcome); jsonErr == nil && models.TerminalStatus(outcome.Status) {
			if outcome.Status == models.RequestSuccess {
				return SeenSuccess, nil
			}
			return SeenFailed, nil
		}
		// Stale or unreadable non-terminal entry; drop it and fall
		// through to the durable reservation.
		if delErr := g.cache.Del(ctx, RequestKey(txID)); delErr != nil {
			utils.Logger.WithError(delErr).Warnf("Failed to drop stale idempotency entry for %s", txID)
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		utils.Logger.WithError(err).Warnf("Idempotency cache lookup failed for %s", txID)
	}

	if err := g.requests.CreatePending(ctx, txID, userID, currency); err != nil {
		if errors.Is(err, ErrDuplicateToken) {
			return SeenPending, nil
		}
		return Fresh, utils.ErrorHandler(err, "failed to reserve idempotency token")
	}

	return Fresh, nil
}

// MarkFailed records the terminal failed status for a token, best effort.
func (g *IdempotencyGuard) MarkFailed(ctx context.Context, txID string) error {
	return g.requests.MarkFailed(ctx, txID)
}
