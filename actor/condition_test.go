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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondition(t *testing.T) {
	t.Run("With signals never coalesced", func(t *testing.T) {
		scheduler := newControlled(t)
		ctl := New("conditional", nil)
		schedule(t, scheduler, ctl)

		invocations := 0
		condition := ctl.OnCondition("ready", func(context.Context) { invocations++ })
		assert.Equal(t, "ready", condition.Name())

		for range 4 {
			condition.Signal()
		}
		scheduler.WorkUntilDone()
		assert.Equal(t, 4, invocations)
	})
	t.Run("With signals interleaved with passes", func(t *testing.T) {
		scheduler := newControlled(t)
		ctl := New("conditional", nil)
		schedule(t, scheduler, ctl)
		scheduler.WorkUntilDone()

		invocations := 0
		condition := ctl.OnCondition("tick", func(context.Context) { invocations++ })
		for i := range 4 {
			condition.Signal()
			scheduler.WorkUntilDone()
			assert.Equal(t, i+1, invocations)
		}
	})
	t.Run("With signals sent from other goroutines", func(t *testing.T) {
		scheduler := newControlled(t)
		ctl := New("conditional", nil)
		schedule(t, scheduler, ctl)

		invocations := 0
		condition := ctl.OnCondition("remote", func(context.Context) { invocations++ })
		done := make(chan struct{})
		for range 4 {
			go func() {
				condition.Signal()
				done <- struct{}{}
			}()
		}
		for range 4 {
			<-done
		}

		scheduler.WorkUntilDone()
		assert.Equal(t, 4, invocations)
	})
	t.Run("With a closed actor", func(t *testing.T) {
		scheduler := newControlled(t)
		ctl := New("conditional", nil)
		schedule(t, scheduler, ctl)
		ctl.Close()
		scheduler.WorkUntilDone()

		invocations := 0
		ctl.OnCondition("late", func(context.Context) { invocations++ }).Signal()
		scheduler.WorkUntilDone()
		assert.Zero(t, invocations)
	})
}
