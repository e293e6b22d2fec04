package queue

import (
	"context"

	"kobovault/pkg/utils"

	"github.com/sirupsen/logrus"
)

type envelopeSender interface {
	send(ctx context.Context, queue string, env Envelope) error
}

// RetryRouter decides what happens to a message whose handler failed:
// re-publish the identical payload to the same queue with attempts+1, or,
// once the attempt budget is spent, publish it to the dead-letter queue
// tagged with the final count. Either way the original delivery was already
// acknowledged by the pop, so every failure ends in exactly one
// acknowledgment plus exactly one re-publish.
type RetryRouter struct {
	sender      envelopeSender
	maxAttempts int
	deadQueue   string
}

func NewRetryRouter(q *RedisQueue, maxAttempts int, deadQueue string) *RetryRouter {
	return &RetryRouter{sender: q, maxAttempts: maxAttempts, deadQueue: deadQueue}
}

func (r *RetryRouter) Route(ctx context.Context, queue string, env Envelope, cause error) error {
	env.Headers.Attempts++

	if env.Headers.Attempts > r.maxAttempts {
		utils.Logger.WithFields(logrus.Fields{
			"queue":    queue,
			"message":  env.ID,
			"attempts": env.Headers.Attempts,
			"error":    cause.Error(),
		}).Error("💀 Max retries reached, sending to dead-letter queue")
		return r.sender.send(ctx, r.deadQueue, env)
	}

	utils.Logger.WithFields(logrus.Fields{
		"queue":    queue,
		"message":  env.ID,
		"attempts": env.Headers.Attempts,
		"error":    cause.Error(),
	}).Warn("🔁 Retrying message")
	return r.sender.send(ctx, queue, env)
}
