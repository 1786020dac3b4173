package async

import (
	"context"
	"fmt"
	"sync"
)

// Future is the pending result of a task submitted with Submit.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future that is already complete
func Resolved[T any](val T, err error) *Future[T] {
	f := newFuture[T]()
	f.complete(val, err)
	return f
}

func (f *Future[T]) complete(val T, err error) {
	f.once.Do(func() {
		f.val = val
		f.err = err
		close(f.done)
	})
}

// Done is closed once the result is available
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the task completes or ctx is done. Abandoning a wait does
// not cancel the task.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit runs fn on pool and returns a future for its result. The task sees
// the values of ctx and is canceled when ctx is, or when the pool's task
// timeout expires. A nil pool runs fn on its own goroutine. Panics in fn
// complete the future with an error. Failures are also reported on the
// pool's Errors channel.
func Submit[T any](ctx context.Context, pool *WorkerPool, fn func(context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()

	task := func(workerCtx context.Context) (err error) {
		taskCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(workerCtx, cancel)
		defer stop()

		var zero T
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
				f.complete(zero, err)
			}
		}()

		if err := taskCtx.Err(); err != nil {
			f.complete(zero, err)
			return err
		}

		val, err := fn(taskCtx)
		f.complete(val, err)
		return err
	}

	if pool == nil {
		go task(context.Background())
		return f
	}

	if err := pool.Submit(task); err != nil {
		var zero T
		f.complete(zero, err)
	}
	return f
}
