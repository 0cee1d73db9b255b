package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

// setupTestCache starts an in-process Redis and returns a cache on it.
func setupTestCache(t *testing.T, prefix string) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, prefix, time.Minute), mr
}

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestCache_SetGet(t *testing.T) {
	c, mr := setupTestCache(t, "test:")
	ctx := context.Background()

	var got item
	found, err := c.Get(ctx, "a", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "a", item{ID: 1, Name: "Story"}))
	assert.True(t, mr.Exists("test:a"))
	assert.Equal(t, time.Minute, mr.TTL("test:a"))

	found, err = c.Get(ctx, "a", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item{ID: 1, Name: "Story"}, got)

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.EqualValues(t, 1, stats.Sets)
	assert.InDelta(t, 50.0, stats.HitRate, 0.001)

	c.ResetStats()
	assert.Zero(t, c.Stats().TotalGets)
}

func TestCache_TTLExpiry(t *testing.T) {
	c, mr := setupTestCache(t, "ttl:")
	ctx := context.Background()

	require.NoError(t, c.SetWithTTL(ctx, "k", "v", time.Second))
	mr.FastForward(2 * time.Second)

	var v string
	found, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_GetCorruptValue(t *testing.T) {
	c, mr := setupTestCache(t, "bad:")
	require.NoError(t, mr.Set("bad:k", "{not json"))

	var v item
	_, err := c.Get(context.Background(), "k", &v)
	assert.Error(t, err)
	assert.EqualValues(t, 1, c.Stats().Errors)
}

func TestCache_DeleteAndPattern(t *testing.T) {
	c, mr := setupTestCache(t, "catalog:")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "categories:active", 1))
	require.NoError(t, c.Set(ctx, "categories:all", 2))
	require.NoError(t, c.Set(ctx, "task_types:all", 3))
	require.NoError(t, mr.Set("other:categories:x", "keep"))

	require.NoError(t, c.DeletePattern(ctx, "categories:*"))
	assert.False(t, mr.Exists("catalog:categories:active"))
	assert.False(t, mr.Exists("catalog:categories:all"))
	assert.True(t, mr.Exists("catalog:task_types:all"))
	assert.True(t, mr.Exists("other:categories:x"))

	require.NoError(t, c.Delete(ctx, "task_types:all", "missing"))
	assert.False(t, mr.Exists("catalog:task_types:all"))
	assert.EqualValues(t, 3, c.Stats().Deletes)

	require.NoError(t, c.Delete(ctx))
}

func TestCache_GetOrLoad(t *testing.T) {
	c, _ := setupTestCache(t, "load:")
	ctx := context.Background()

	var calls atomic.Int32
	load := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []item{{ID: 7, Name: "Reel"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out []item
			_, err := c.GetOrLoad(ctx, "types", &out, load)
			assert.NoError(t, err)
			assert.Equal(t, []item{{ID: 7, Name: "Reel"}}, out)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, calls.Load())

	var out []item
	hit, err := c.GetOrLoad(ctx, "types", &out, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.EqualValues(t, 1, calls.Load())
}

func TestCache_GetOrLoadError(t *testing.T) {
	c, mr := setupTestCache(t, "err:")
	boom := errors.New("store down")

	var out []item
	_, err := c.GetOrLoad(context.Background(), "x", &out, func(context.Context) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("err:x"))
}

func TestPluginModule_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	m := NewPluginModule(mr.Addr(), "planner:", &mockLogger{})
	ctx := context.Background()

	assert.Equal(t, "cache", m.Name())
	assert.Nil(t, m.Storage())
	assert.False(t, m.Health(ctx).Healthy)

	require.NoError(t, m.Start(ctx))
	require.NotNil(t, m.Port())
	require.NotNil(t, m.Storage())

	require.NoError(t, m.Port().Set(ctx, "k", "v"))
	assert.True(t, mr.Exists("planner:k"))

	require.NoError(t, m.Storage().Set("session:1", []byte("data"), time.Minute))
	assert.True(t, mr.Exists("session:1"))

	h := m.Health(ctx)
	assert.True(t, h.Healthy)
	assert.Equal(t, mr.Addr(), h.Details["redis_addr"])

	require.NoError(t, m.Stop(ctx))
}

func TestParseRedisAddr(t *testing.T) {
	tests := []struct {
		addr     string
		wantHost string
		wantPort int
	}{
		{"localhost:6380", "localhost", 6380},
		{":6379", "127.0.0.1", 6379},
		{"redis", "127.0.0.1", 6379},
		{"host:abc", "host", 6379},
	}
	for _, tt := range tests {
		host, port := parseRedisAddr(tt.addr)
		assert.Equal(t, tt.wantHost, host, tt.addr)
		assert.Equal(t, tt.wantPort, port, tt.addr)
	}
}
