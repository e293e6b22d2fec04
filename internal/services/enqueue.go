package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"kobovault/internal/cache"
	"kobovault/internal/models"
	"kobovault/internal/queue"
	"kobovault/internal/wallet"
	"kobovault/pkg/utils"
)

type requestLookup interface {
	GetByTxID(ctx context.Context, txID string) (*models.WalletRequest, error)
}

// EnqueueResult is the only thing the API boundary ever reports
// synchronously: queued or duplicate. The eventual mutation outcome is
// discoverable later via the idempotency cache/store or the transaction
// history, never here.
type EnqueueResult struct {
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

// EnqueueService performs the synchronous duplicate check and hands the
// job to the broker.
type EnqueueService struct {
	requests  requestLookup
	cache     wallet.Cache
	publisher queue.Publisher
}

func NewEnqueueService(requests requestLookup, c wallet.Cache, publisher queue.Publisher) *EnqueueService {
	return &EnqueueService{requests: requests, cache: c, publisher: publisher}
}

// Enqueue checks the token against the cache and then the idempotency
// ledger; a hit means duplicate, otherwise the payload is published to
// queueName and reported as queued.
func (s *EnqueueService) Enqueue(ctx context.Context, queueName, txID string, payload any, queuedMsg string) (*EnqueueResult, error) {
	key := wallet.RequestKey(txID)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var data any
		json.Unmarshal([]byte(cached), &data)
		return duplicate(data), nil
	} else if !errors.Is(err, cache.ErrMiss) {
		utils.Logger.WithError(err).Warnf("Duplicate-check cache lookup failed for %s", txID)
	}

	existing, err := s.requests.GetByTxID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		encoded, _ := json.Marshal(existing)
		if err := s.cache.Set(ctx, key, string(encoded), wallet.CacheTTL); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to cache duplicate request %s", txID)
		}
		return duplicate(existing), nil
	}

	if err := s.publisher.Publish(ctx, queueName, payload); err != nil {
		return nil, utils.ErrorHandler(err, "failed to enqueue job")
	}

	return &EnqueueResult{
		StatusCode: http.StatusAccepted,
		Status:     "queued",
		Message:    queuedMsg,
		Data:       payload,
	}, nil
}

func duplicate(data any) *EnqueueResult {
	return &EnqueueResult{
		StatusCode: http.StatusConflict,
		Status:     "duplicate",
		Message:    "This transaction ID has already been used.",
		Data:       data,
	}
}
