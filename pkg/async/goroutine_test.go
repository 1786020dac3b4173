package async

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/houstonoilairs/research-analytics/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.DebugLevel, &bytes.Buffer{})
}

func TestSafeGo_Success(t *testing.T) {
	done := make(chan struct{})

	SafeGo(context.Background(), testLogger(), time.Second, "test task", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SafeGo did not execute function")
	}
}

func TestSafeGo_LogsError(t *testing.T) {
	var buf syncBuffer
	logger := observability.NewLogger(observability.InfoLevel, &buf)

	SafeGo(context.Background(), logger, time.Second, "failing task", func(ctx context.Context) error {
		return errors.New("boom")
	})

	assert.Eventually(t, func() bool {
		return bytes.Contains(buf.Bytes(), []byte("boom"))
	}, time.Second, 10*time.Millisecond)
}

func TestSafeGo_Timeout(t *testing.T) {
	canceled := make(chan struct{})

	SafeGo(context.Background(), testLogger(), 20*time.Millisecond, "slow task", func(ctx context.Context) error {
		<-ctx.Done()
		close(canceled)
		return ctx.Err()
	})

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("task context was not canceled by timeout")
	}
}

func TestSafeGo_PanicRecovery(t *testing.T) {
	var buf syncBuffer
	logger := observability.NewLogger(observability.InfoLevel, &buf)

	SafeGo(context.Background(), logger, time.Second, "panicking task", func(ctx context.Context) error {
		panic("test panic")
	})

	assert.Eventually(t, func() bool {
		return bytes.Contains(buf.Bytes(), []byte("PANIC recovered"))
	}, time.Second, 10*time.Millisecond)
}

func TestWorkerPool_Basic(t *testing.T) {
	pool := NewWorkerPool(context.Background(), testLogger(), 2, "test pool", time.Second)

	executed := atomic.Int32{}
	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Submit(func(ctx context.Context) error {
			executed.Add(1)
			return nil
		}))
	}

	require.NoError(t, pool.Shutdown(time.Second))
	assert.Equal(t, int32(10), executed.Load())
}

func TestWorkerPool_WithErrors(t *testing.T) {
	pool := NewWorkerPool(context.Background(), testLogger(), 2, "test pool", time.Second)

	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(func(ctx context.Context) error {
			return errors.New("test error")
		}))
	}
	require.NoError(t, pool.Shutdown(time.Second))

	errorCount := 0
	for {
		select {
		case <-pool.Errors():
			errorCount++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 5, errorCount)
}

func TestWorkerPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(context.Background(), testLogger(), 1, "test pool", time.Second)
	require.NoError(t, pool.Shutdown(time.Second))

	err := pool.Submit(func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrPoolClosed)

	// second shutdown is a no-op
	assert.NoError(t, pool.Shutdown(time.Second))
}

func TestWorkerPool_Timeout(t *testing.T) {
	pool := NewWorkerPool(context.Background(), testLogger(), 1, "test pool", 20*time.Millisecond)
	defer pool.Shutdown(time.Second)

	timedOut := make(chan struct{})
	require.NoError(t, pool.Submit(func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			close(timedOut)
			return ctx.Err()
		}
	}))

	select {
	case <-timedOut:
	case <-time.After(time.Second):
		t.Fatal("task should have timed out")
	}
}

func TestWorkerPool_PanicBecomesError(t *testing.T) {
	pool := NewWorkerPool(context.Background(), testLogger(), 1, "test pool", time.Second)

	require.NoError(t, pool.Submit(func(ctx context.Context) error {
		panic("worker panic")
	}))
	require.NoError(t, pool.Shutdown(time.Second))

	select {
	case err := <-pool.Errors():
		assert.Contains(t, err.Error(), "worker panic")
	default:
		t.Fatal("expected panic to be reported as an error")
	}
}
