package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	appErrors "github.com/Ehud-Guzman/customerfeedback/pkg/errors"
)

// Breaker states reported through CacheBreakerConfig.OnStateChange.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

// CacheBreakerConfig tunes the circuit breaker guarding Redis.
type CacheBreakerConfig struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
	OnStateChange       func(state int)
}

// CacheRepository stores analytics payloads in Redis behind a circuit breaker.
// While the breaker is open every call fails fast without touching Redis.
type CacheRepository struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker[[]byte]
	logger *zap.Logger
}

// NewCacheRepository constructs a cache repository. A nil client yields a repository
// that always misses.
func NewCacheRepository(client *redis.Client, logger *zap.Logger, cfg CacheBreakerConfig) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "analytics-cache",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, appErrors.ErrCacheMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(breakerStateValue(to))
			}
		},
	})

	return &CacheRepository{client: client, cb: cb, logger: logger}
}

func breakerStateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateOpen:
		return BreakerOpen
	case gobreaker.StateHalfOpen:
		return BreakerHalfOpen
	default:
		return BreakerClosed
	}
}

// Get retrieves and unmarshals the cached value into the provided destination.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.cb.Execute(func() ([]byte, error) {
		raw, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrCacheMiss
		}
		return raw, err
	})
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return err
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set marshals the provided value and stores it with the given TTL.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if _, err := r.cb.Execute(func() ([]byte, error) {
		return nil, r.client.Set(ctx, key, payload, ttl).Err()
	}); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// DeleteByPattern removes cached entries matching the provided pattern.
func (r *CacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.client == nil {
		return nil
	}

	_, err := r.cb.Execute(func() ([]byte, error) {
		iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			key := iter.Val()
			if err := r.client.Del(ctx, key).Err(); err != nil {
				return nil, fmt.Errorf("delete %s: %w", key, err)
			}
		}
		return nil, iter.Err()
	})
	if err != nil {
		return fmt.Errorf("redis delete pattern %s: %w", pattern, err)
	}
	return nil
}

// State reports the breaker state as one of the Breaker constants.
func (r *CacheRepository) State() int {
	return breakerStateValue(r.cb.State())
}

// Close releases the underlying Redis connection if present.
func (r *CacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
