package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/lokatani/marketplace-api/internal/cache"
	"github.com/lokatani/marketplace-api/internal/config"
	"github.com/lokatani/marketplace-api/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (cache.Cache, redismock.ClientMock, config.CacheConfig) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := config.CacheConfig{DefaultTTL: 10 * time.Minute}

	return cache.NewRedisCache(client, cfg), mock, cfg
}

func TestGet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.IdentityKeyPrefix, "farmerA")
	identity := models.User{ID: uuid.New(), Username: "farmerA", Name: "Farmer A", Role: models.RoleSeller}
	jsonData, err := json.Marshal(identity)
	require.NoError(t, err)

	t.Run("Hit", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetVal(string(jsonData))

		var result models.User

		// Act
		found, err := redisCache.Get(ctx, key, &result)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, identity.ID, result.ID)
		assert.Equal(t, models.RoleSeller, result.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss is not an error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetErr(redis.Nil)

		var result models.User

		found, err := redisCache.Get(ctx, key, &result)

		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, uuid.Nil, result.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis error is wrapped", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		expectedErr := errors.New("redis connection error")
		mock.ExpectGet(key).SetErr(expectedErr)

		var result models.User

		found, err := redisCache.Get(ctx, key, &result)

		require.Error(t, err)
		assert.False(t, found)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Corrupt entry", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetVal(`{"id": 42}`)

		var result models.User

		found, err := redisCache.Get(ctx, key, &result)

		require.Error(t, err)
		assert.False(t, found)
		assert.Contains(t, err.Error(), "failed to unmarshal cache data for key "+key)
	})
}

func TestSet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.IdentityKeyPrefix, "buyerB")
	identity := models.User{ID: uuid.New(), Username: "buyerB", Role: models.RoleBuyer}
	jsonData, err := json.Marshal(identity)
	require.NoError(t, err)

	t.Run("Explicit TTL", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectSet(key, jsonData, time.Minute).SetVal("OK")

		require.NoError(t, redisCache.Set(ctx, key, identity, time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Non-positive TTL falls back to the default", func(t *testing.T) {
		redisCache, mock, cfg := setup(t)
		mock.ExpectSet(key, jsonData, cfg.DefaultTTL).SetVal("OK")

		require.NoError(t, redisCache.Set(ctx, key, identity, 0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unmarshallable value", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		err := redisCache.Set(ctx, key, make(chan int), time.Minute)

		var jsonErr *json.UnsupportedTypeError
		assert.ErrorAs(t, err, &jsonErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		expectedErr := errors.New("redis SET failed")
		mock.ExpectSet(key, jsonData, time.Minute).SetErr(expectedErr)

		err := redisCache.Set(ctx, key, identity, time.Minute)

		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDelete(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.IdentityKeyPrefix, "farmerA")

	t.Run("Success", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectDel(key).SetVal(1)

		require.NoError(t, redisCache.Delete(ctx, key))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		expectedErr := errors.New("redis DEL failed")
		mock.ExpectDel(key).SetErr(expectedErr)

		assert.ErrorIs(t, redisCache.Delete(ctx, key), expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "identity:farmerA", cache.Key(cache.IdentityKeyPrefix, "farmerA"))
	assert.Equal(t, ":", cache.Key("", ""))
}
