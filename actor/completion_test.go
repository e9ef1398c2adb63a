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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/goflow/future"
	"github.com/tochemey/goflow/log"
)

func TestRunOnAllCompletion(t *testing.T) {
	t.Run("With no future", func(t *testing.T) {
		scheduler := newControlled(t)
		ctl := New("empty", nil)
		schedule(t, scheduler, ctl)

		called := false
		var result error
		ctl.RunOnAllCompletion(nil, func(err error) {
			called = true
			result = err
		})
		scheduler.WorkUntilDone()

		assert.True(t, called)
		assert.NoError(t, result)
	})
	t.Run("With one failure and one success", func(t *testing.T) {
		scheduler := newControlled(t)
		ctl := New("composite", nil)
		schedule(t, scheduler, ctl)

		first := future.New[int]()
		second := future.New[string]()
		calls := 0
		var result error
		ctl.RunOnAllCompletion([]future.Completable{first, second}, func(err error) {
			calls++
			result = err
		})

		require.NoError(t, first.CompleteExceptionally(errExpected))
		scheduler.WorkUntilDone()
		assert.Zero(t, calls)

		require.NoError(t, second.Complete("ok"))
		scheduler.WorkUntilDone()
		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, result, errExpected)
	})
	t.Run("With the last failure in completion order", func(t *testing.T) {
		scheduler := newControlled(t)
		ctl := New("composite", nil)
		schedule(t, scheduler, ctl)

		first := future.New[int]()
		second := future.New[int]()
		var result error
		ctl.RunOnAllCompletion([]future.Completable{first, second}, func(err error) { result = err })

		require.NoError(t, second.CompleteExceptionally(errExpected))
		scheduler.WorkUntilDone()
		require.NoError(t, first.CompleteExceptionally(assert.AnError))
		scheduler.WorkUntilDone()

		assert.ErrorIs(t, result, assert.AnError)
	})
	t.Run("With every future failing in list order", func(t *testing.T) {
		scheduler := newControlled(t)
		ctl := New("composite", nil)
		schedule(t, scheduler, ctl)

		first := future.New[struct{}]()
		second := future.New[struct{}]()
		calls := 0
		var result error
		ctl.RunOnAllCompletion([]future.Completable{first, second}, func(err error) {
			calls++
			result = err
		})

		require.NoError(t, first.CompleteExceptionally(errors.New("foo")))
		require.NoError(t, second.CompleteExceptionally(errors.New("bar")))
		scheduler.WorkUntilDone()

		assert.Equal(t, 1, calls)
		require.Error(t, result)
		assert.Equal(t, "bar", result.Error())
	})
	t.Run("With futures completed already", func(t *testing.T) {
		scheduler := newControlled(t)
		ctl := New("composite", nil)
		schedule(t, scheduler, ctl)

		called := false
		ctl.RunOnAllCompletion([]future.Completable{future.Completed(1), future.Completed("a")}, func(err error) {
			called = err == nil
		})
		scheduler.WorkUntilDone()
		assert.True(t, called)
	})
}

func TestRunOnCompletion(t *testing.T) {
	t.Run("With callbacks run inside the actor in registration order", func(t *testing.T) {
		scheduler := newControlled(t)
		events := new(eventLog)
		ctl := New("ordered", nil)
		schedule(t, scheduler, ctl)

		f := future.New[string]()
		for _, name := range []string{"a", "b", "c"} {
			RunOnCompletion(ctl, f, func(value string, _ error) { events.add(name + value) })
		}

		require.NoError(t, f.Complete("!"))
		assert.Empty(t, events.list())

		scheduler.WorkUntilDone()
		assert.Equal(t, []string{"a!", "b!", "c!"}, events.list())
	})
	t.Run("With a future completed by another actor", func(t *testing.T) {
		scheduler := newControlled(t)
		owner := New("owner", nil)
		schedule(t, scheduler, owner)
		scheduler.WorkUntilDone()

		remote, err := NewSingleThreadScheduler(WithLogger(log.DiscardLogger), WithLockOSThread(false))
		require.NoError(t, err)
		require.NoError(t, remote.Start())
		defer remote.Close()

		producer := New("producer", nil)
		schedule(t, remote, producer)

		values := make(chan string, 1)
		answer := Call(producer, func(context.Context) (string, error) { return "pong", nil })
		RunOnCompletion(owner, answer, func(value string, _ error) { values <- value })

		_, err = answer.GetTimeout(time.Second)
		require.NoError(t, err)
		assert.Empty(t, values)

		// the callback belongs to the owner and only runs during its passes
		assert.Eventually(t, func() bool {
			scheduler.WorkUntilDone()
			return len(values) == 1
		}, time.Second, time.Millisecond)
		assert.Equal(t, "pong", <-values)
	})
	t.Run("With OnComplete registered from a job", func(t *testing.T) {
		scheduler := newControlled(t)
		ctl := New("contextual", nil)
		schedule(t, scheduler, ctl)

		f := future.New[int]()
		var registration error
		value := 0
		ctl.Run(func(ctx context.Context) {
			registration = f.OnComplete(ctx, func(v int, _ error) { value = v })
		})
		scheduler.WorkUntilDone()
		require.NoError(t, registration)

		require.NoError(t, f.Complete(7))
		scheduler.WorkUntilDone()
		assert.Equal(t, 7, value)
	})
	t.Run("With OnComplete registered outside any actor", func(t *testing.T) {
		f := future.New[int]()
		err := f.OnComplete(context.Background(), func(int, error) {})
		assert.ErrorIs(t, err, future.ErrUnsupportedOperation)
	})
	t.Run("With the actor closed before completion", func(t *testing.T) {
		scheduler := newControlled(t)
		ctl := New("gone", nil)
		schedule(t, scheduler, ctl)

		f := future.New[int]()
		called := false
		RunOnCompletion(ctl, f, func(int, error) { called = true })
		ctl.Close()
		scheduler.WorkUntilDone()

		require.NoError(t, f.Complete(1))
		scheduler.WorkUntilDone()
		assert.False(t, called)
	})
}
