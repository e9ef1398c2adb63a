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
	"runtime"
	"time"
)

// IdleStrategy decides how a runner waits after a pass that did no work.
// Each runner owns its own instance.
type IdleStrategy interface {
	// Idle waits for a while, or until wake fires
	Idle(wake <-chan struct{})
	// Reset returns the strategy to its most aggressive state
	Reset()
}

// backoffIdleStrategy spins, then yields the processor, then parks with an
// exponentially growing timeout.
type backoffIdleStrategy struct {
	maxSpins  int
	maxYields int
	minPark   time.Duration
	maxPark   time.Duration

	spins  int
	yields int
	park   time.Duration
	timer  *time.Timer
}

var _ IdleStrategy = (*backoffIdleStrategy)(nil)

// NewBackoffIdleStrategy creates an IdleStrategy that busy spins maxSpins
// times, yields maxYields times then parks from minPark doubling up to maxPark.
func NewBackoffIdleStrategy(maxSpins, maxYields int, minPark, maxPark time.Duration) IdleStrategy {
	return &backoffIdleStrategy{
		maxSpins:  maxSpins,
		maxYields: maxYields,
		minPark:   minPark,
		maxPark:   max(minPark, maxPark),
		park:      minPark,
	}
}

// Idle implements IdleStrategy
func (s *backoffIdleStrategy) Idle(wake <-chan struct{}) {
	switch {
	case s.spins < s.maxSpins:
		s.spins++
	case s.yields < s.maxYields:
		s.yields++
		runtime.Gosched()
	default:
		if s.timer == nil {
			s.timer = time.NewTimer(s.park)
		} else {
			s.timer.Reset(s.park)
		}

		select {
		case <-wake:
			s.timer.Stop()
		case <-s.timer.C:
		}

		s.park = min(s.park*2, s.maxPark)
	}
}

// Reset implements IdleStrategy
func (s *backoffIdleStrategy) Reset() {
	s.spins = 0
	s.yields = 0
	s.park = s.minPark
}
