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
	"sync"
	"time"
)

// Completable is the value independent view of a future.
type Completable interface {
	// IsDone reports whether the result is available.
	IsDone() bool
	// WhenDone registers cb to run through exec once the result is available.
	// cb receives the failure cause, or nil on success.
	WhenDone(exec Executor, cb func(error))
}

type callback[T any] struct {
	exec Executor
	fn   func(T, error)
}

// Future is a single-assignment completion cell. It is completed at most
// once, either with a value or with a failure cause, and the terminal
// state never changes afterwards.
//
// Callbacks run exactly once in registration order, including callbacks
// registered after completion. Blocking reads (Join, Get, GetTimeout) may
// be used from any goroutine that is not an actor.
type Future[T any] struct {
	mu          sync.Mutex
	done        chan struct{}
	completed   bool
	dispatching bool
	value       T
	err         error
	callbacks   []callback[T]
}

// enforce compilation and linter error
var _ Completable = (*Future[struct{}])(nil)

// New returns a pending future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Completed returns a future already completed with value.
func Completed[T any](value T) *Future[T] {
	f := New[T]()
	_ = f.Complete(value)
	return f
}

// Failed returns a future already completed exceptionally with cause.
func Failed[T any](cause error) (*Future[T], error) {
	if cause == nil {
		return nil, ErrNilCause
	}
	f := New[T]()
	_ = f.CompleteExceptionally(cause)
	return f, nil
}

// Complete completes the future with value.
// It returns ErrAlreadyCompleted when the future holds a result already.
func (f *Future[T]) Complete(value T) error {
	return f.complete(value, nil)
}

// CompleteExceptionally fails the future with cause.
// A nil cause is rejected with ErrNilCause and leaves the future untouched.
func (f *Future[T]) CompleteExceptionally(cause error) error {
	if cause == nil {
		return ErrNilCause
	}
	var zero T
	return f.complete(zero, cause)
}

func (f *Future[T]) complete(value T, err error) error {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return ErrAlreadyCompleted
	}
	f.completed = true
	f.dispatching = true
	f.value = value
	f.err = err
	close(f.done)
	f.mu.Unlock()

	f.drain()
	return nil
}

// drain dispatches pending callbacks, including the ones registered while
// draining, until none are left.
func (f *Future[T]) drain() {
	for {
		f.mu.Lock()
		pending := f.callbacks
		f.callbacks = nil
		if len(pending) == 0 {
			f.dispatching = false
			f.mu.Unlock()
			return
		}
		f.mu.Unlock()

		for _, cb := range pending {
			fn := cb.fn
			dispatch(cb.exec, func() { fn(f.value, f.err) })
		}
	}
}

// IsDone reports whether the future is completed.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// IsCompletedExceptionally reports whether the future is completed with a failure.
func (f *Future[T]) IsCompletedExceptionally() bool {
	return f.IsDone() && f.err != nil
}

// Done returns a channel closed once the future is completed.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Join blocks until the future is completed. A failure is returned as an
// *ExecutionError wrapping the cause.
func (f *Future[T]) Join() (T, error) {
	<-f.done
	return f.result()
}

// Get blocks until the future is completed or ctx is done.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// GetTimeout blocks for at most timeout. When the future does not complete
// in time a *TimeoutError is returned.
func (f *Future[T]) GetTimeout(timeout time.Duration) (T, error) {
	start := time.Now()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result()
	case <-timer.C:
		var zero T
		return zero, &TimeoutError{Timeout: timeout, Elapsed: time.Since(start)}
	}
}

func (f *Future[T]) result() (T, error) {
	if f.err != nil {
		var zero T
		return zero, &ExecutionError{Cause: f.err}
	}
	return f.value, nil
}

// OnComplete registers cb to run inside the actor that owns ctx once the
// future is completed. ctx must carry an actor executor, see WithExecutor;
// otherwise ErrUnsupportedOperation is returned and nothing is registered.
func (f *Future[T]) OnComplete(ctx context.Context, cb func(T, error)) error {
	exec := ExecutorFromContext(ctx)
	if exec == nil {
		return ErrUnsupportedOperation
	}
	f.OnCompleteOn(exec, cb)
	return nil
}

// OnCompleteOn registers cb to run through exec once the future is
// completed. A nil exec runs cb on the completing goroutine, or on the
// caller's when the future is completed already. cb receives the raw
// cause, not an *ExecutionError.
func (f *Future[T]) OnCompleteOn(exec Executor, cb func(T, error)) {
	f.mu.Lock()
	if !f.completed || f.dispatching {
		f.callbacks = append(f.callbacks, callback[T]{exec: exec, fn: cb})
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	dispatch(exec, func() { cb(f.value, f.err) })
}

// WhenDone implements Completable.
func (f *Future[T]) WhenDone(exec Executor, cb func(error)) {
	f.OnCompleteOn(exec, func(_ T, err error) { cb(err) })
}
