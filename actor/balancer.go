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
	"time"

	"github.com/tochemey/goflow/internal/queue"
	"github.com/tochemey/goflow/log"
)

// migration records one actor moved by a balance pass
type migration struct {
	ref  *Reference
	from int
	to   int
}

// balanceResult is the outcome of a balance pass
type balanceResult struct {
	durations  []time.Duration
	sorted     []int
	migrations []migration
}

// balancer claims newly scheduled actors for the runners of a dynamic
// scheduler and periodically migrates actors from the most loaded runners
// to the least loaded ones.
type balancer struct {
	runners        []*runner
	unclaimed      *queue.Mpsc[*Reference]
	threshold      float64
	initialBackoff time.Duration
	maxBackoff     time.Duration
	clock          func() time.Time
	logger         log.Logger
	metrics        *schedulerMetrics

	// owned by the balancer goroutine
	nextRunner         int
	nextSchedulingTime time.Time

	wakeCh chan struct{}
	stopCh chan struct{}
	done   chan struct{}
}

func newBalancer(runners []*runner, cfg *config, metrics *schedulerMetrics) *balancer {
	return &balancer{
		runners:        runners,
		unclaimed:      queue.NewMpsc[*Reference](),
		threshold:      cfg.imbalanceThreshold,
		initialBackoff: cfg.initialBackoff,
		maxBackoff:     cfg.maxBackoff,
		clock:          cfg.clock,
		logger:         cfg.logger.With("component", "balancer"),
		metrics:        metrics,
		wakeCh:         make(chan struct{}, 1),
		stopCh:         make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// submit queues a newly scheduled actor for claiming
func (b *balancer) submit(ref *Reference) {
	b.unclaimed.Push(ref)
	select {
	case b.wakeCh <- struct{}{}:
	default:
	}
}

// run is the monitor loop. It returns once stop is called.
func (b *balancer) run() {
	defer close(b.done)
	b.logger.Debugf("balancer started with %d runners", len(b.runners))

	timer := time.NewTimer(b.maxBackoff)
	defer timer.Stop()

	for {
		wait := b.iterate()
		timer.Reset(wait)

		select {
		case <-b.stopCh:
			b.logger.Debug("balancer stopped")
			return
		case <-b.wakeCh:
		case <-timer.C:
		}
	}
}

// iterate performs one balancing iteration and returns how long to wait
// before the next one
func (b *balancer) iterate() time.Duration {
	if len(b.runners) > 1 {
		if now := b.clock(); !now.Before(b.nextSchedulingTime) {
			backoff := b.maxBackoff
			if result := b.balance(); len(result.migrations) > 0 {
				backoff = b.initialBackoff
			}
			b.nextSchedulingTime = now.Add(backoff)
		}
	}

	b.claim()

	if len(b.runners) <= 1 {
		return b.maxBackoff
	}
	return max(b.nextSchedulingTime.Sub(b.clock()), time.Millisecond)
}

func (b *balancer) stop() {
	close(b.stopCh)
}

// claim assigns every unclaimed actor round robin, regardless of load
func (b *balancer) claim() {
	b.unclaimed.Drain(func(ref *Reference) {
		index := b.nextRunner
		b.nextRunner = (b.nextRunner + 1) % len(b.runners)
		b.runners[index].admit(ref)
		b.metrics.claim(context.Background(), index)
	})
}

// balance pairs the least loaded runner with the most loaded one, the
// second least with the second most and so on, moving at most one actor
// per pair. The least loaded runner becomes the next claim target.
func (b *balancer) balance() balanceResult {
	count := len(b.runners)
	actors := make([][]*Reference, count)
	durations := make([]time.Duration, count)
	for index, r := range b.runners {
		actors[index] = r.Actors()
		for _, ref := range actors[index] {
			durations[index] += ref.DurationAverage()
		}
	}

	sorted := sortByDuration(durations)
	result := balanceResult{durations: durations, sorted: sorted}

	for r := 0; r < count/2; r++ {
		low, high := sorted[r], sorted[count-1-r]
		if len(actors[high]) <= 1 {
			continue
		}

		diff := durations[high] - durations[low]
		if diff <= 0 || imbalance(durations[low], durations[high]) < b.threshold {
			continue
		}

		candidate := largestAtMost(actors[high], diff/2)
		if candidate == nil {
			continue
		}

		b.migrate(candidate, low, high)
		result.migrations = append(result.migrations, migration{ref: candidate, from: high, to: low})
	}

	b.nextRunner = sorted[0]
	return result
}

// migrate reclaims the actor from its runner and only then admits it to
// the target, so it is never pinned to two runners at once
func (b *balancer) migrate(ref *Reference, to, from int) {
	target := b.runners[to]
	b.runners[from].reclaim(ref, func(found bool) {
		if found && !ref.IsClosing() {
			target.admit(ref)
		}
	})

	b.metrics.migration(context.Background(), from, to)
	b.logger.Debugf("migrating actor=(%s) from runner %d to runner %d", ref.Name(), from, to)
}

// imbalance returns the relative gap between two runner loads, zero when
// high is not larger than low
func imbalance(low, high time.Duration) float64 {
	diff := high - low
	if diff <= 0 {
		return 0
	}
	return float64(diff) / float64(high+low)
}

// largestAtMost returns the open actor with the largest duration average
// not exceeding limit, or nil
func largestAtMost(actors []*Reference, limit time.Duration) *Reference {
	var candidate *Reference
	best := time.Duration(-1)
	for _, ref := range actors {
		if ref.IsClosing() {
			continue
		}
		if duration := ref.DurationAverage(); duration <= limit && duration > best {
			candidate, best = ref, duration
		}
	}
	return candidate
}

// sortByDuration returns runner indices ordered by ascending duration.
// Insertion sort keeps equal loads in index order.
func sortByDuration(durations []time.Duration) []int {
	sorted := make([]int, len(durations))
	for i := range sorted {
		sorted[i] = i
	}

	for i := 1; i < len(sorted); i++ {
		current := sorted[i]
		j := i - 1
		for ; j >= 0 && durations[sorted[j]] > durations[current]; j-- {
			sorted[j+1] = sorted[j]
		}
		sorted[j+1] = current
	}
	return sorted
}
