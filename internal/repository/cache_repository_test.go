package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	appErrors "github.com/Ehud-Guzman/customerfeedback/pkg/errors"
)

func TestCacheRepositoryWithoutClientMisses(t *testing.T) {
	repo := NewCacheRepository(nil, zap.NewNop(), CacheBreakerConfig{})
	ctx := context.Background()

	var dest map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "analytics:*"))
	assert.NoError(t, repo.Close())
	assert.Equal(t, BreakerClosed, repo.State())
}

func TestCacheRepositoryBreakerOpensOnUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	var states []int
	repo := NewCacheRepository(client, zap.NewNop(), CacheBreakerConfig{
		ConsecutiveFailures: 2,
		OpenTimeout:         time.Minute,
		OnStateChange:       func(state int) { states = append(states, state) },
	})
	ctx := context.Background()

	var dest map[string]int
	for i := 0; i < 2; i++ {
		err := repo.Get(ctx, "k", &dest)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, appErrors.ErrCacheMiss)
	}
	assert.Equal(t, BreakerOpen, repo.State())
	assert.Equal(t, []int{BreakerOpen}, states)

	assert.ErrorIs(t, repo.Set(ctx, "k", 1, time.Minute), gobreaker.ErrOpenState)
}
