package cache

import (
	"context"
	"errors"
	"time"

	"kobovault/internal/config"
	"kobovault/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent. Cache absence is always safe;
// the durable store stays authoritative.
var ErrMiss = errors.New("cache: key not found")

type Store struct {
	client *redis.Client
}

func Connect(cfg *config.Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, utils.ErrorHandler(err, "failed to connect to redis")
	}

	utils.Logger.Info("✅ Redis connected")
	return &Store{client: client}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *Store) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Client exposes the underlying connection so the queue can share it.
func (s *Store) Client() *redis.Client {
	return s.client
}

func (s *Store) Close() error {
	return s.client.Close()
}
