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

package actor

import (
	"context"

	"github.com/tochemey/goflow/future"
)

// Call runs fn inside the actor and returns a future of its result. The
// future fails with errors.ErrActorClosed when the actor closes first.
func Call[T any](ctl *Control, fn func(ctx context.Context) (T, error)) *future.Future[T] {
	result := future.New[T]()
	ctl.enqueue(&job{
		fn: func(ctx context.Context) {
			value, err := fn(ctx)
			if err != nil {
				_ = result.CompleteExceptionally(err)
				return
			}
			_ = result.Complete(value)
		},
		onDrop: func(cause error) {
			_ = result.CompleteExceptionally(cause)
		},
	})
	return result
}

// RunOnCompletion runs cb inside the actor once f is completed, whichever
// goroutine completes it
func RunOnCompletion[T any](ctl *Control, f *future.Future[T], cb func(T, error)) {
	f.OnCompleteOn(ctl, cb)
}

// RunOnCompletionBlockingCurrentPhase runs cb inside the actor once f is
// completed. Until cb has run, the actor neither leaves its current phase
// nor runs ordinary jobs.
func RunOnCompletionBlockingCurrentPhase[T any](ctl *Control, f *future.Future[T], cb func(T, error)) {
	ctl.blocking.Inc()
	f.OnCompleteOn(blockingExecutor{ctl: ctl}, cb)
}

// blockingExecutor runs tasks as critical jobs releasing the phase
type blockingExecutor struct {
	ctl *Control
}

func (x blockingExecutor) Execute(task func()) {
	x.ctl.enqueue(&job{
		fn:       func(context.Context) { task() },
		critical: true,
		release:  true,
	})
}

// RunOnAllCompletion runs cb inside the actor once every future is
// completed. cb receives the failure of the last future to fail, in
// completion order, or nil. With an empty list cb(nil) is queued as a job
// rather than run synchronously.
func (c *Control) RunOnAllCompletion(futures []future.Completable, cb func(error)) {
	if len(futures) == 0 {
		c.Run(func(context.Context) { cb(nil) })
		return
	}

	// both only touched by jobs of this actor
	pending := len(futures)
	var failure error
	for _, f := range futures {
		f.WhenDone(c, func(err error) {
			if err != nil {
				failure = err
			}
			pending--
			if pending == 0 {
				cb(failure)
			}
		})
	}
}

// RunUntilDone runs fn inside the actor, again on every DoWork call, until
// fn calls done. No other job of the actor interleaves in the meantime.
func (c *Control) RunUntilDone(fn func(ctx context.Context, done func())) {
	c.enqueue(&job{fn: func(ctx context.Context) {
		finished := false
		fn(ctx, func() { finished = true })
		if !finished {
			c.runUntil = fn
		}
	}})
}
