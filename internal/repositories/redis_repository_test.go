package repository

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/lokatani/marketplace-api/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLoginRateLimit(t *testing.T) {
	cfg := config.RateConfig{MaxAttempts: 3, WindowSize: 15 * time.Second}
	now := time.Unix(1_700_000_100, 0)
	key := "login_attempts:farmerA"
	windowStart := strconv.FormatInt(now.Unix()-15, 10)

	newRepo := func() (*redisRepository, redismock.ClientMock) {
		client, mock := redismock.NewClientMock()
		repo := NewRateLimitRepo(client, cfg).(*redisRepository)
		repo.now = func() time.Time { return now }
		return repo, mock
	}

	expectAttempt := func(mock redismock.ClientMock, count int64) {
		mock.ExpectTxPipeline()
		mock.ExpectZRemRangeByScore(key, "0", windowStart).SetVal(0)
		mock.ExpectZAdd(key, redis.Z{Score: float64(now.Unix()), Member: now.UnixNano()}).SetVal(1)
		mock.ExpectZCard(key).SetVal(count)
		mock.ExpectExpire(key, cfg.WindowSize).SetVal(true)
		mock.ExpectTxPipelineExec()
	}

	t.Run("Allowed within the window", func(t *testing.T) {
		repo, mock := newRepo()
		expectAttempt(mock, 2)

		allowed, remaining, retryAfter, err := repo.CheckLoginRateLimit(t.Context(), "farmerA")

		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 1, remaining)
		assert.Zero(t, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Blocked once the limit is exceeded", func(t *testing.T) {
		repo, mock := newRepo()
		expectAttempt(mock, 4)
		mock.ExpectZRangeWithScores(key, 0, 0).SetVal([]redis.Z{{Score: float64(now.Unix() - 5), Member: "x"}})

		allowed, remaining, retryAfter, err := repo.CheckLoginRateLimit(t.Context(), "farmerA")

		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.Equal(t, 10, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Pipeline failure", func(t *testing.T) {
		repo, mock := newRepo()
		mock.ExpectTxPipeline()
		mock.ExpectZRemRangeByScore(key, "0", windowStart).SetErr(errors.New("connection refused"))

		allowed, _, _, err := repo.CheckLoginRateLimit(t.Context(), "farmerA")

		require.Error(t, err)
		assert.False(t, allowed)
	})
}

func TestResetLoginAttempts(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRateLimitRepo(client, config.RateConfig{MaxAttempts: 5, WindowSize: time.Minute})

	mock.ExpectDel("login_attempts:buyerB").SetVal(1)

	require.NoError(t, repo.ResetLoginAttempts(t.Context(), "buyerB"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
