package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	At     time.Time `json:"at"`
}

// setupRedisStoreTest creates a miniredis instance and a store on top of it
func setupRedisStoreTest(t *testing.T) (*RedisStore[[]sample], *miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore[[]sample](client, RedisConfig{KeyPrefix: "metrics:"})
	return store, mr, client
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), RedisConfig{URL: "invalid://url"})
	assert.Error(t, err)
}

func TestNewRedisClient_ConnectionFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), RedisConfig{URL: "redis://" + addr})
	assert.Error(t, err)
}

func TestRedisStore_ComputesOnceThenHits(t *testing.T) {
	store, mr, _ := setupRedisStoreTest(t)
	ctx := context.Background()

	at := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	calls := 0
	compute := func(ctx context.Context) ([]sample, error) {
		calls++
		return []sample{{Name: "alignment", Values: []float64{0.25, 0.5}, At: at}}, nil
	}

	first, hit, err := store.GetOrCompute(ctx, "alignment", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, mr.Exists("metrics:alignment"))

	second, hit, err := store.GetOrCompute(ctx, "alignment", compute)
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, 1, calls)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Values, second[0].Values)
	assert.True(t, first[0].At.Equal(second[0].At))
}

func TestRedisStore_FirstWriterWins(t *testing.T) {
	store, mr, _ := setupRedisStoreTest(t)
	ctx := context.Background()

	// another process already stored a value between our read and write
	require.NoError(t, mr.Set("metrics:fairness", `[{"name":"winner","values":[1],"at":"2026-01-01T00:00:00Z"}]`))

	got, _, err := store.GetOrCompute(ctx, "fairness", func(ctx context.Context) ([]sample, error) {
		return []sample{{Name: "loser"}}, nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "winner", got[0].Name)
}

func TestRedisStore_CorruptEntryIsRecomputed(t *testing.T) {
	store, mr, _ := setupRedisStoreTest(t)
	require.NoError(t, mr.Set("metrics:robustness", "not-json"))

	got, hit, err := store.GetOrCompute(context.Background(), "robustness", func(ctx context.Context) ([]sample, error) {
		return []sample{{Name: "fresh"}}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "fresh", got[0].Name)
}

func TestRedisStore_ErrorsAreNotCached(t *testing.T) {
	store, mr, _ := setupRedisStoreTest(t)
	cause := errors.New("boom")

	_, _, err := store.GetOrCompute(context.Background(), "k", func(ctx context.Context) ([]sample, error) {
		return nil, cause
	})
	assert.ErrorIs(t, err, cause)
	assert.False(t, mr.Exists("metrics:k"))
}

func TestRedisStore_CanceledCallerDoesNotFailWaiters(t *testing.T) {
	store, mr, _ := setupRedisStoreTest(t)

	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	compute := func(ctx context.Context) ([]sample, error) {
		calls++
		close(started)
		<-release
		return []sample{{Name: "alignment"}}, nil
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := store.GetOrCompute(firstCtx, "alignment", compute)
		firstErr <- err
	}()
	<-started

	type result struct {
		got []sample
		err error
	}
	second := make(chan result, 1)
	go func() {
		got, _, err := store.GetOrCompute(context.Background(), "alignment", compute)
		second <- result{got, err}
	}()

	// the first caller leaves while the shared computation is still running
	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	time.Sleep(20 * time.Millisecond)
	close(release)

	res := <-second
	require.NoError(t, res.err)
	require.Len(t, res.got, 1)
	assert.Equal(t, "alignment", res.got[0].Name)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("metrics:alignment"))
}

func TestRedisStore_AbandonedComputationIsStored(t *testing.T) {
	store, mr, _ := setupRedisStoreTest(t)

	release := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := store.GetOrCompute(ctx, "fairness", func(ctx context.Context) ([]sample, error) {
			<-release
			return []sample{{Name: "fairness"}}, nil
		})
		done <- err
	}()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	close(release)

	require.Eventually(t, func() bool {
		return mr.Exists("metrics:fairness")
	}, time.Second, 5*time.Millisecond)
}

func TestRedisStore_ComputeTimeout(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	store := NewRedisStore[int](client, RedisConfig{KeyPrefix: "slow:", ComputeTimeout: 20 * time.Millisecond})
	_, _, err = store.GetOrCompute(context.Background(), "k", func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, mr.Exists("slow:k"))
}

func TestRedisStore_PanicBecomesError(t *testing.T) {
	store, mr, _ := setupRedisStoreTest(t)

	_, _, err := store.GetOrCompute(context.Background(), "k", func(ctx context.Context) ([]sample, error) {
		panic("generator exploded")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generator exploded")
	assert.False(t, mr.Exists("metrics:k"))
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	store := NewRedisStore[int](client, RedisConfig{KeyPrefix: "ttl:", TTL: time.Minute})
	_, _, err = store.GetOrCompute(context.Background(), "k", func(ctx context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	assert.Equal(t, time.Minute, mr.TTL("ttl:k"))
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr, _ := setupRedisStoreTest(t)
	mr.Close()

	_, _, err := store.GetOrCompute(context.Background(), "k", func(ctx context.Context) ([]sample, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrCacheUnavailable)
}

func TestRedisStore_StatsAndPing(t *testing.T) {
	store, _, _ := setupRedisStoreTest(t)
	ctx := context.Background()

	for _, key := range []string{"a", "b"} {
		_, _, err := store.GetOrCompute(ctx, key, func(ctx context.Context) ([]sample, error) {
			return []sample{{Name: key}}, nil
		})
		require.NoError(t, err)
	}

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ItemCount)
	assert.Equal(t, int64(2), stats.Misses)

	assert.NoError(t, store.Ping(ctx))
	assert.Equal(t, BackendRedis, store.Backend())
}
