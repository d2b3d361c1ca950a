package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/killallgit/fortune-api/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache(t *testing.T) {
	url := os.Getenv("FORTUNE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("FORTUNE_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	rc, err := NewRedisCache(ctx, RedisOptions{
		URL:        url,
		ClientName: "fortune-api-test",
		KeyPrefix:  "fortune-api-test:",
	}, logging.Discard())
	require.NoError(t, err)
	defer rc.Close()

	_, found := rc.Get(ctx, "missing")
	assert.False(t, found)

	require.NoError(t, rc.Set(ctx, "key", []byte("value"), time.Minute))
	value, found := rc.Get(ctx, "key")
	assert.True(t, found)
	assert.Equal(t, []byte("value"), value)

	require.NoError(t, rc.Delete(ctx, "key"))
	_, found = rc.Get(ctx, "key")
	assert.False(t, found)
}

func TestNewRedisCache_RequiresURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisOptions{}, nil)
	assert.Error(t, err)
}

func TestNewRedisCache_RejectsBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisOptions{URL: "http://not-redis"}, nil)
	assert.Error(t, err)
}
