/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// queueExecutor records tasks and runs them on demand, standing in for an actor.
type queueExecutor struct {
	mu    sync.Mutex
	tasks []func()
}

func (q *queueExecutor) Execute(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

func (q *queueExecutor) runAll() int {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()
	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

func TestFuture(t *testing.T) {
	t.Run("With a value completion", func(t *testing.T) {
		f := New[string]()
		require.False(t, f.IsDone())
		require.NoError(t, f.Complete("foo"))
		require.True(t, f.IsDone())
		require.False(t, f.IsCompletedExceptionally())

		value, err := f.Join()
		require.NoError(t, err)
		assert.Equal(t, "foo", value)
	})
	t.Run("With an exceptional completion", func(t *testing.T) {
		cause := errors.New("bar")
		f := New[string]()
		require.NoError(t, f.CompleteExceptionally(cause))
		require.True(t, f.IsCompletedExceptionally())

		_, err := f.Join()
		require.Error(t, err)
		var execErr *ExecutionError
		require.ErrorAs(t, err, &execErr)
		assert.Same(t, cause, execErr.Cause)
		assert.ErrorIs(t, err, cause)
	})
	t.Run("With a nil cause", func(t *testing.T) {
		f := New[int]()
		require.ErrorIs(t, f.CompleteExceptionally(nil), ErrNilCause)
		assert.False(t, f.IsDone())

		failed, err := Failed[int](nil)
		require.ErrorIs(t, err, ErrNilCause)
		assert.Nil(t, failed)
	})
	t.Run("With a second completion the terminal state is kept", func(t *testing.T) {
		f := Completed(1)
		require.ErrorIs(t, f.Complete(2), ErrAlreadyCompleted)
		require.ErrorIs(t, f.CompleteExceptionally(errors.New("late")), ErrAlreadyCompleted)

		for range 3 {
			value, err := f.Join()
			require.NoError(t, err)
			assert.Equal(t, 1, value)
		}

		failed, err := Failed[int](errors.New("first"))
		require.NoError(t, err)
		require.ErrorIs(t, failed.Complete(5), ErrAlreadyCompleted)
		_, err = failed.Join()
		assert.EqualError(t, errors.Unwrap(err), "first")
	})
	t.Run("With a zero value completion", func(t *testing.T) {
		f := Completed[*int](nil)
		value, err := f.Join()
		require.NoError(t, err)
		assert.Nil(t, value)
	})
}

func TestFutureBlockingReads(t *testing.T) {
	t.Run("With completion on another goroutine", func(t *testing.T) {
		f := New[int]()
		go func() {
			time.Sleep(10 * time.Millisecond)
			_ = f.Complete(42)
		}()

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				value, err := f.Get(context.Background())
				assert.NoError(t, err)
				assert.Equal(t, 42, value)
			}()
		}
		wg.Wait()
	})
	t.Run("With exceptional completion on another goroutine", func(t *testing.T) {
		f := New[int]()
		cause := errors.New("expected")
		go func() { _ = f.CompleteExceptionally(cause) }()

		_, err := f.GetTimeout(time.Second)
		require.ErrorIs(t, err, cause)
	})
	t.Run("With a timeout", func(t *testing.T) {
		f := New[int]()
		_, err := f.GetTimeout(5 * time.Millisecond)
		require.ErrorIs(t, err, ErrTimeout)

		var timeoutErr *TimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		assert.Equal(t, 5*time.Millisecond, timeoutErr.Timeout)
		assert.GreaterOrEqual(t, timeoutErr.Elapsed, 5*time.Millisecond)
	})
	t.Run("With a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New[int]().Get(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestFutureCallbacks(t *testing.T) {
	t.Run("With OnComplete outside an actor context", func(t *testing.T) {
		f := New[int]()
		err := f.OnComplete(context.Background(), func(int, error) {})
		require.ErrorIs(t, err, ErrUnsupportedOperation)
	})
	t.Run("With OnComplete inside an actor context", func(t *testing.T) {
		exec := new(queueExecutor)
		ctx := WithExecutor(context.Background(), exec)
		f := New[int]()

		var got int
		require.NoError(t, f.OnComplete(ctx, func(v int, _ error) { got = v }))
		require.NoError(t, f.Complete(7))
		require.Zero(t, got)

		require.Equal(t, 1, exec.runAll())
		assert.Equal(t, 7, got)
	})
	t.Run("With callbacks in registration order", func(t *testing.T) {
		f := New[int]()
		var order []int
		for i := range 3 {
			f.OnCompleteOn(nil, func(int, error) { order = append(order, i) })
		}
		require.NoError(t, f.Complete(1))
		f.OnCompleteOn(nil, func(int, error) { order = append(order, 3) })
		assert.Equal(t, []int{0, 1, 2, 3}, order)
	})
	t.Run("With a callback registered after failure", func(t *testing.T) {
		cause := errors.New("bar")
		f, err := Failed[string](cause)
		require.NoError(t, err)

		var received error
		f.WhenDone(nil, func(err error) { received = err })
		assert.Same(t, cause, received)
	})
	t.Run("With a callback registered while draining", func(t *testing.T) {
		f := New[int]()
		var order []string
		f.OnCompleteOn(nil, func(int, error) {
			order = append(order, "first")
			f.OnCompleteOn(nil, func(int, error) { order = append(order, "nested") })
			order = append(order, "first-end")
		})
		f.OnCompleteOn(nil, func(int, error) { order = append(order, "second") })
		require.NoError(t, f.Complete(1))
		assert.Equal(t, []string{"first", "first-end", "second", "nested"}, order)
	})
}

func TestChaining(t *testing.T) {
	t.Run("With ThenApply", func(t *testing.T) {
		f := New[int]()
		chained := ThenApply(ThenApply(f, func(v int) (int, error) { return v + 1, nil }, nil),
			func(v int) (string, error) { return string(rune('a' + v)), nil }, nil)

		require.NoError(t, f.Complete(1))
		value, err := chained.Join()
		require.NoError(t, err)
		assert.Equal(t, "c", value)
	})
	t.Run("With ThenApply short-circuiting on failure", func(t *testing.T) {
		cause := errors.New("bar")
		f := New[int]()
		called := false
		chained := ThenApply(f, func(v int) (int, error) {
			called = true
			return v, nil
		}, nil)

		require.NoError(t, f.CompleteExceptionally(cause))
		_, err := chained.Join()
		require.ErrorIs(t, err, cause)
		assert.False(t, called)
	})
	t.Run("With ThenApply on an executor", func(t *testing.T) {
		exec := new(queueExecutor)
		f := New[int]()
		chained := ThenApply(f, func(v int) (int, error) { return v * 2, nil }, exec)

		require.NoError(t, f.Complete(4))
		require.False(t, chained.IsDone())
		require.Equal(t, 1, exec.runAll())
		value, err := chained.Join()
		require.NoError(t, err)
		assert.Equal(t, 8, value)
	})
	t.Run("With AndThen recovering from a failure", func(t *testing.T) {
		f := New[int]()
		chained := AndThen(f, func(_ int, err error) *Future[string] {
			if err != nil {
				return Completed("recovered")
			}
			return Completed("ok")
		}, nil)

		require.NoError(t, f.CompleteExceptionally(errors.New("bar")))
		value, err := chained.Join()
		require.NoError(t, err)
		assert.Equal(t, "recovered", value)
	})
	t.Run("With AndThen waiting on the intermediate future", func(t *testing.T) {
		f := New[int]()
		intermediate := New[int]()
		chained := AndThen(f, func(int, error) *Future[int] { return intermediate }, nil)

		require.NoError(t, f.Complete(1))
		require.False(t, chained.IsDone())
		require.NoError(t, intermediate.Complete(2))
		value, err := chained.Join()
		require.NoError(t, err)
		assert.Equal(t, 2, value)
	})
	t.Run("With AndThen returning nil", func(t *testing.T) {
		chained := AndThen(Completed(1), func(int, error) *Future[int] { return nil }, nil)
		_, err := chained.Join()
		require.ErrorIs(t, err, ErrNilFuture)
	})
	t.Run("With a panicking continuation", func(t *testing.T) {
		chained := ThenApply(Completed(1), func(int) (int, error) { panic("boom") }, nil)
		_, err := chained.Join()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}

func BenchmarkFuture(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		f := New[int]()
		go func() { _ = f.Complete(i) }()
		_, _ = f.Join()
	}
}
