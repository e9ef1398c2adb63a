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
	"runtime"
	"slices"
	"time"

	gods "github.com/Workiva/go-datastructures/queue"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goflow/errors"
	"github.com/tochemey/goflow/internal/queue"
	"github.com/tochemey/goflow/log"
)

// command is a deferred operation applied by a runner on its own goroutine
type command interface {
	apply(r *runner)
}

// admitCommand pins an actor to the runner
type admitCommand struct {
	ref *Reference
}

func (c admitCommand) apply(r *runner) {
	c.ref.owner.Store(r)
	r.actors = append(slices.Clip(r.actors), c.ref)
}

// reclaimCommand unpins an actor from the runner. then is called on the
// runner goroutine and reports whether the actor was still pinned.
type reclaimCommand struct {
	ref  *Reference
	then func(found bool)
}

func (c reclaimCommand) apply(r *runner) {
	index := slices.Index(r.actors, c.ref)
	if index >= 0 {
		r.actors = slices.Delete(slices.Clone(r.actors), index, index+1)
		c.ref.owner.CompareAndSwap(r, nil)
	}

	if c.then != nil {
		c.then(index >= 0)
	}
}

// runner executes the duty cycle of a subset of actors on one goroutine.
// Its actor list is only mutated on that goroutine, while applying commands.
type runner struct {
	id             int
	logger         log.Logger
	baseIterations int
	samplePeriod   time.Duration
	clock          func() time.Time
	idle           IdleStrategy
	errorHandler   ErrorHandler
	lockOSThread   bool
	metrics        *schedulerMetrics

	commands *gods.RingBuffer
	overflow *queue.Mpsc[command]

	actors     []*Reference
	snapshot   *atomic.Pointer[[]*Reference]
	lastSample time.Time

	ctx      context.Context
	cancel   context.CancelFunc
	wakeCh   chan struct{}
	stopping *atomic.Bool
	done     chan struct{}
}

func newRunner(id int, cfg *config, metrics *schedulerMetrics) *runner {
	ctx, cancel := context.WithCancel(context.Background())
	empty := make([]*Reference, 0)
	return &runner{
		id:             id,
		logger:         cfg.logger.With("runner", id),
		baseIterations: cfg.baseIterationsPerActor,
		samplePeriod:   cfg.samplePeriod,
		clock:          cfg.clock,
		idle:           cfg.idleStrategy(),
		errorHandler:   cfg.errorHandler,
		lockOSThread:   cfg.lockOSThread,
		metrics:        metrics,
		commands:       gods.NewRingBuffer(uint64(cfg.queueCapacity)),
		overflow:       queue.NewMpsc[command](),
		actors:         empty,
		snapshot:       atomic.NewPointer(&empty),
		ctx:            ctx,
		cancel:         cancel,
		wakeCh:         make(chan struct{}, 1),
		stopping:       atomic.NewBool(false),
		done:           make(chan struct{}),
	}
}

// submit hands a command to the runner. It never blocks: when the ring is
// full the command spills over into the unbounded overflow queue, and
// keeps doing so until the runner has drained it, to preserve order.
func (r *runner) submit(cmd command) {
	if r.overflow.Len() == 0 {
		if ok, err := r.commands.Offer(cmd); ok && err == nil {
			r.wake()
			return
		}
	}
	r.overflow.Push(cmd)
	r.wake()
}

func (r *runner) admit(ref *Reference) {
	r.submit(admitCommand{ref: ref})
}

func (r *runner) reclaim(ref *Reference, then func(found bool)) {
	r.submit(reclaimCommand{ref: ref, then: then})
}

func (r *runner) wake() {
	select {
	case r.wakeCh <- struct{}{}:
	default:
	}
}

// Actors returns the last published view of the pinned actors
func (r *runner) Actors() []*Reference {
	return *r.snapshot.Load()
}

// hasPendingCommands reports whether commands are waiting to be applied
func (r *runner) hasPendingCommands() bool {
	return r.commands.Len() > 0 || r.overflow.Len() > 0
}

func (r *runner) stats() RunnerStats {
	actors := r.Actors()
	var duration time.Duration
	for _, ref := range actors {
		duration += ref.DurationAverage()
	}
	return RunnerStats{runner: r.id, actors: len(actors), duration: duration}
}

// run executes duty cycle passes until stop is called
func (r *runner) run() {
	defer close(r.done)
	if r.lockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	r.logger.Debug("runner started")
	for !r.stopping.Load() {
		if r.pass() > 0 {
			r.idle.Reset()
			continue
		}
		r.idle.Idle(r.wakeCh)
	}

	r.commands.Dispose()
	r.logger.Debugf("runner stopped with %d actors", len(r.actors))
}

// stop asks the runner to exit once its current pass completes
func (r *runner) stop() {
	if r.stopping.CompareAndSwap(false, true) {
		r.cancel()
		r.wake()
	}
}

// pass runs one duty cycle and returns the work performed
func (r *runner) pass() int {
	work := r.drainCommands()

	now := r.clock()
	sampling := !now.Before(r.lastSample.Add(r.samplePeriod))
	if sampling {
		r.lastSample = now
	}

	closing := false
	for _, ref := range r.actors {
		if ref.IsClosing() {
			closing = true
			continue
		}
		work += r.runActor(ref, now, sampling)
		closing = closing || ref.IsClosing()
	}

	if closing {
		work += r.removeClosing()
	}

	r.metrics.work(r.ctx, r.id, work)
	return work
}

func (r *runner) drainCommands() int {
	applied := 0
	for r.commands.Len() > 0 {
		item, err := r.commands.Get()
		if err != nil {
			break
		}
		item.(command).apply(r)
		applied++
	}

	applied += r.overflow.Drain(func(cmd command) { cmd.apply(r) })
	if applied > 0 {
		r.publish()
	}
	return applied
}

// runActor calls DoWork at most priority*baseIterations times, stopping at
// the first call reporting no work or failing
func (r *runner) runActor(ref *Reference, now time.Time, sampling bool) int {
	priority := clampPriority(ref.actor.Priority(now))
	if priority == PriorityIdle {
		return 0
	}

	var start time.Time
	if sampling {
		start = time.Now()
	}

	work := 0
	iterations := priority * r.baseIterations
	for range iterations {
		units, err := r.invoke(ref)
		if err != nil {
			r.handleFault(ref, err)
			break
		}
		if units <= 0 {
			break
		}
		work += units
	}

	if sampling {
		elapsed := time.Since(start)
		ref.addDurationSample(elapsed)
		r.metrics.duration(r.ctx, r.id, elapsed)
	}
	return work
}

func (r *runner) invoke(ref *Reference) (units int, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = gerrors.NewErrActorPanic(ref.Name(), recovered)
		}
	}()
	return ref.actor.DoWork(r.ctx)
}

func (r *runner) handleFault(ref *Reference, err error) {
	r.metrics.fault(r.ctx, r.id, ref.Name())
	if r.errorHandler != nil {
		r.errorHandler(ref, err)
		return
	}
	r.logger.Errorf("actor=(%s) failed: %v", ref.Name(), err)
}

func (r *runner) removeClosing() int {
	removed := 0
	r.actors = slices.DeleteFunc(slices.Clone(r.actors), func(ref *Reference) bool {
		if !ref.IsClosing() {
			return false
		}
		ref.owner.CompareAndSwap(r, nil)
		removed++
		return true
	})
	r.publish()
	return removed
}

func (r *runner) publish() {
	actors := r.actors
	r.snapshot.Store(&actors)
}
