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
	"math/bits"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Reference is the scheduler-visible handle of a scheduled actor.
// It carries the actor's close flag and its workload samples.
type Reference struct {
	id    string
	actor Actor

	closing *atomic.Bool
	owner   *atomic.Pointer[runner]

	// written by the owning runner only
	samples []int64
	mask    uint64
	cursor  uint64
	count   uint64
	sum     int64

	average *atomic.Duration
}

func newReference(actor Actor, sampleCount int) *Reference {
	capacity := nextPowerOfTwo(sampleCount)
	return &Reference{
		id:      uuid.NewString(),
		actor:   actor,
		closing: atomic.NewBool(false),
		owner:   atomic.NewPointer[runner](nil),
		samples: make([]int64, capacity),
		mask:    uint64(capacity - 1),
		average: atomic.NewDuration(0),
	}
}

// ID returns the unique reference id
func (x *Reference) ID() string {
	return x.id
}

// Name returns the actor name
func (x *Reference) Name() string {
	return x.actor.Name()
}

// Actor returns the underlying actor
func (x *Reference) Actor() Actor {
	return x.actor
}

// Close marks the actor for removal. The owning runner drops it on its next
// pass. Close is idempotent and can be called from any goroutine.
func (x *Reference) Close() {
	if x.closing.CompareAndSwap(false, true) {
		x.wake()
	}
}

// IsClosing reports whether Close has been called
func (x *Reference) IsClosing() bool {
	return x.closing.Load()
}

// DurationAverage returns the moving average of the sampled durations
func (x *Reference) DurationAverage() time.Duration {
	return x.average.Load()
}

// addDurationSample folds one sample into the moving average. The running
// sum keeps avg*n exact, so a constant input converges to that value.
func (x *Reference) addDurationSample(duration time.Duration) {
	sample := int64(duration)
	capacity := uint64(len(x.samples))
	if x.count < capacity {
		x.samples[x.cursor] = sample
		x.sum += sample
		x.count++
	} else {
		x.sum += sample - x.samples[x.cursor]
		x.samples[x.cursor] = sample
	}

	x.cursor = (x.cursor + 1) & x.mask
	x.average.Store(time.Duration(x.sum / int64(x.count)))
}

func (x *Reference) sampleCapacity() int {
	return len(x.samples)
}

// wake nudges the runner currently owning the actor out of its idle wait
func (x *Reference) wake() {
	if owner := x.owner.Load(); owner != nil {
		owner.wake()
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
