package queue

import (
	"context"
	"encoding/json"
	"time"

	"kobovault/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Publisher is the producer-side surface. Consumers and the API layer
// depend on this, not on the concrete Redis queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, payload any) error
}

// Handler processes one message body. A non-nil error hands the envelope
// to the retry router.
type Handler func(ctx context.Context, body []byte) error

// RedisQueue moves messages over Redis lists: LPUSH to the head, blocking
// pop from the tail. Popping is the acknowledgment; a failed handler never
// leaves an unacknowledged message behind because the router always
// re-publishes exactly once.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Publish(ctx context.Context, queue string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return utils.ErrorHandler(err, "failed to encode queue payload")
	}
	return q.send(ctx, queue, NewEnvelope(body))
}

func (q *RedisQueue) send(ctx context.Context, queue string, env Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return utils.ErrorHandler(err, "failed to encode queue envelope")
	}
	if err := q.client.LPush(ctx, queue, raw).Err(); err != nil {
		return utils.ErrorHandler(err, "failed to publish to queue "+queue)
	}
	utils.Logger.WithFields(logrus.Fields{
		"queue":    queue,
		"message":  env.ID,
		"attempts": env.Headers.Attempts,
	}).Debug("📤 Sent message to queue")
	return nil
}

// Consume pops and handles messages one at a time; the next message is not
// fetched until the current handler and its ack/re-publish path resolve.
// It returns when ctx is cancelled.
func (q *RedisQueue) Consume(ctx context.Context, queue string, router *RetryRouter, handler Handler) {
	utils.Logger.Infof("👷 Consumer listening on %q", queue)

	for {
		res, err := q.client.BRPop(ctx, 5*time.Second, queue).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				utils.Logger.Infof("Consumer on %q stopped", queue)
				return
			}
			utils.Logger.WithError(err).Errorf("Failed to pop from queue %q", queue)
			time.Sleep(time.Second)
			continue
		}

		env, err := decodeEnvelope(res[1])
		if err != nil {
			utils.Logger.WithError(err).Errorf("Dropping malformed envelope on %q", queue)
			continue
		}

		utils.Logger.WithFields(logrus.Fields{
			"queue":   queue,
			"message": env.ID,
		}).Debug("📥 Consumed message from queue")

		if err := handler(ctx, env.Body); err != nil {
			// Handler context may be gone; routing uses a short fresh one
			// so the failed message is never lost on shutdown.
			routeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if rerr := router.Route(routeCtx, queue, env, err); rerr != nil {
				utils.Logger.WithError(rerr).Errorf("Failed to route failed message %s", env.ID)
			}
			cancel()
		}
	}
}
