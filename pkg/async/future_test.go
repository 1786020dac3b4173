package async

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func TestSubmit_ReturnsValue(t *testing.T) {
	pool := NewWorkerPool(context.Background(), testLogger(), 2, "future", time.Second)
	defer pool.Shutdown(time.Second)

	f := Submit(context.Background(), pool, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	val, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

func TestSubmit_ReturnsError(t *testing.T) {
	pool := NewWorkerPool(context.Background(), testLogger(), 1, "future", time.Second)
	defer pool.Shutdown(time.Second)

	cause := errors.New("analysis failed")
	f := Submit(context.Background(), pool, func(ctx context.Context) (string, error) {
		return "", cause
	})

	_, err := f.Wait(context.Background())
	assert.ErrorIs(t, err, cause)
}

func TestSubmit_PanicCompletesFuture(t *testing.T) {
	pool := NewWorkerPool(context.Background(), testLogger(), 1, "future", time.Second)
	defer pool.Shutdown(time.Second)

	f := Submit(context.Background(), pool, func(ctx context.Context) (int, error) {
		panic("kaboom")
	})

	_, err := f.Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestSubmit_FailuresReachPoolErrors(t *testing.T) {
	pool := NewWorkerPool(context.Background(), testLogger(), 1, "future", time.Second)
	defer pool.Shutdown(time.Second)

	cause := errors.New("analysis failed")
	_, err := Submit(context.Background(), pool, func(ctx context.Context) (int, error) {
		return 0, cause
	}).Wait(context.Background())
	require.ErrorIs(t, err, cause)

	select {
	case reported := <-pool.Errors():
		assert.ErrorIs(t, reported, cause)
	case <-time.After(time.Second):
		t.Fatal("task failure was not reported to the pool")
	}

	_, err = Submit(context.Background(), pool, func(ctx context.Context) (int, error) {
		panic("kaboom")
	}).Wait(context.Background())
	require.Error(t, err)

	select {
	case reported := <-pool.Errors():
		assert.Contains(t, reported.Error(), "kaboom")
	case <-time.After(time.Second):
		t.Fatal("task panic was not reported to the pool")
	}
}

func TestSubmit_SuccessReportsNothing(t *testing.T) {
	pool := NewWorkerPool(context.Background(), testLogger(), 1, "future", time.Second)
	defer pool.Shutdown(time.Second)

	_, err := Submit(context.Background(), pool, func(ctx context.Context) (int, error) {
		return 1, nil
	}).Wait(context.Background())
	require.NoError(t, err)
	require.NoError(t, pool.Shutdown(time.Second))

	select {
	case reported := <-pool.Errors():
		t.Fatalf("unexpected pool error: %v", reported)
	default:
	}
}

func TestSubmit_NilPoolRunsInline(t *testing.T) {
	f := Submit(context.Background(), nil, func(ctx context.Context) (string, error) {
		return "ok", nil
	})

	val, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
}

func TestSubmit_ClosedPool(t *testing.T) {
	pool := NewWorkerPool(context.Background(), testLogger(), 1, "future", time.Second)
	require.NoError(t, pool.Shutdown(time.Second))

	f := Submit(context.Background(), pool, func(ctx context.Context) (int, error) {
		return 1, nil
	})

	_, err := f.Wait(context.Background())
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestSubmit_CanceledContext(t *testing.T) {
	pool := NewWorkerPool(context.Background(), testLogger(), 1, "future", time.Second)
	defer pool.Shutdown(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := Submit(ctx, pool, func(ctx context.Context) (int, error) {
		return 1, nil
	})

	_, err := f.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFuture_WaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	f := Submit(context.Background(), nil, func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolved(t *testing.T) {
	f := Resolved(7, nil)

	select {
	case <-f.Done():
	default:
		t.Fatal("resolved future should be done")
	}

	val, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, val)
}
