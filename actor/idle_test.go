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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffIdleStrategy(t *testing.T) {
	t.Run("With spins and yields before parking", func(t *testing.T) {
		strategy := NewBackoffIdleStrategy(2, 2, time.Millisecond, 4*time.Millisecond).(*backoffIdleStrategy)
		wake := make(chan struct{})

		for range 4 {
			strategy.Idle(wake)
		}
		assert.Equal(t, 2, strategy.spins)
		assert.Equal(t, 2, strategy.yields)
		assert.Nil(t, strategy.timer)

		strategy.Idle(wake)
		assert.Equal(t, 2*time.Millisecond, strategy.park)
		strategy.Idle(wake)
		strategy.Idle(wake)
		assert.Equal(t, 4*time.Millisecond, strategy.park)

		strategy.Reset()
		assert.Zero(t, strategy.spins)
		assert.Zero(t, strategy.yields)
		assert.Equal(t, time.Millisecond, strategy.park)
	})
	t.Run("With a wake cutting the park short", func(t *testing.T) {
		strategy := NewBackoffIdleStrategy(0, 0, time.Hour, time.Hour)
		wake := make(chan struct{}, 1)
		wake <- struct{}{}

		done := make(chan struct{})
		go func() {
			strategy.Idle(wake)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("idle strategy ignored the wake signal")
		}
	})
	t.Run("With max park lower than min park", func(t *testing.T) {
		strategy := NewBackoffIdleStrategy(0, 0, 2*time.Millisecond, time.Millisecond).(*backoffIdleStrategy)
		assert.Equal(t, 2*time.Millisecond, strategy.maxPark)
	})
}
