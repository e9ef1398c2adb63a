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
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goflow/errors"
	"github.com/tochemey/goflow/future"
	"github.com/tochemey/goflow/internal/queue"
	"github.com/tochemey/goflow/log"
)

// Job is a unit of work executed inside an actor. The context carries the
// actor executor, so futures can register callbacks with OnComplete.
type Job func(ctx context.Context)

type job struct {
	fn Job
	// runs even while the phase is blocked
	critical bool
	// the actor yields the rest of the pass once the job ran
	yield bool
	// releases one blocking callback once run or dropped
	release bool
	// called when the job is dropped or panics
	onDrop func(error)
	// moves the actor from started to closing once reached
	closing bool
}

// ControlOption configures a Control
type ControlOption func(*Control)

// WithPriority sets the actor priority, see PriorityLow and friends
func WithPriority(priority int) ControlOption {
	return func(c *Control) {
		c.priority.Store(int32(clampPriority(priority)))
	}
}

// Control is an Actor that executes jobs submitted from any goroutine,
// one job per DoWork call, and walks through lifecycle phases driven by
// its Behavior. All jobs and hooks of a Control run on the runner owning
// it, never concurrently.
type Control struct {
	name     string
	behavior Behavior
	priority *atomic.Int32

	ref *atomic.Pointer[Reference]
	env *atomic.Pointer[environment]

	phase          *atomic.Int32
	closeRequested *atomic.Bool
	yielded        *atomic.Bool
	blocking       *atomic.Int32

	jobs   *queue.Mpsc[*job]
	timers mapset.Set[string]
	// serializes draining once the actor reached a terminal phase
	drainMu sync.Mutex

	startFuture *future.Future[struct{}]
	closeFuture *future.Future[struct{}]

	// owned by the runner executing the actor
	deferred        []*job
	runUntil        func(ctx context.Context, done func())
	startingInvoked bool
	current         *job
	parentCtx       context.Context
	jobCtx          context.Context
}

// enforce compilation error
var (
	_ Actor           = (*Control)(nil)
	_ future.Executor = (*Control)(nil)
	_ binder          = (*Control)(nil)
)

// New creates a Control. A nil behavior is replaced by BaseBehavior.
func New(name string, behavior Behavior, opts ...ControlOption) *Control {
	if behavior == nil {
		behavior = BaseBehavior{}
	}

	ctl := &Control{
		name:           name,
		behavior:       behavior,
		priority:       atomic.NewInt32(PriorityLow),
		ref:            atomic.NewPointer[Reference](nil),
		env:            atomic.NewPointer[environment](nil),
		phase:          atomic.NewInt32(int32(PhaseStarting)),
		closeRequested: atomic.NewBool(false),
		yielded:        atomic.NewBool(false),
		blocking:       atomic.NewInt32(0),
		jobs:           queue.NewMpsc[*job](),
		timers:         mapset.NewSet[string](),
		startFuture:    future.New[struct{}](),
		closeFuture:    future.New[struct{}](),
	}

	for _, opt := range opts {
		opt(ctl)
	}
	return ctl
}

// Name implements Actor
func (c *Control) Name() string {
	return c.name
}

// Priority implements Actor
func (c *Control) Priority(time.Time) int {
	return int(c.priority.Load())
}

// SetPriority changes the actor priority from the next pass on
func (c *Control) SetPriority(priority int) {
	c.priority.Store(int32(clampPriority(priority)))
}

// Phase returns the current lifecycle phase
func (c *Control) Phase() Phase {
	return Phase(c.phase.Load())
}

// Reference returns the reference handed out when the actor was scheduled, or nil
func (c *Control) Reference() *Reference {
	return c.ref.Load()
}

// StartFuture returns the future completed once the actor is started
func (c *Control) StartFuture() *future.Future[struct{}] {
	return c.startFuture
}

func (c *Control) bind(ref *Reference, env *environment) error {
	if !c.ref.CompareAndSwap(nil, ref) {
		return gerrors.ErrActorAlreadyScheduled
	}
	c.env.Store(env)
	return nil
}

// Run enqueues a job
func (c *Control) Run(fn Job) {
	c.enqueue(&job{fn: fn})
}

// Submit enqueues a job after which the actor yields the rest of its pass
func (c *Control) Submit(fn Job) {
	c.enqueue(&job{fn: fn, yield: true})
}

// Execute implements future.Executor: task runs as an ordinary job
func (c *Control) Execute(task func()) {
	c.enqueue(&job{fn: func(context.Context) { task() }})
}

// Yield ends the actor's share of the current pass
func (c *Control) Yield() {
	c.yielded.Store(true)
}

// Close asks the actor to close once the jobs queued so far have run.
// The returned future completes once the actor is closed.
func (c *Control) Close() *future.Future[struct{}] {
	if c.closeRequested.CompareAndSwap(false, true) {
		c.enqueue(&job{closing: true})
	}
	return c.closeFuture
}

// DoWork implements Actor. Each call runs at most one job or hook.
func (c *Control) DoWork(ctx context.Context) (units int, err error) {
	if c.yielded.CompareAndSwap(true, false) {
		return 0, nil
	}

	jobCtx := c.context(ctx)
	defer func() {
		if recovered := recover(); recovered != nil {
			err = gerrors.NewErrActorPanic(c.name, recovered)
		}
		if err != nil {
			c.fail(jobCtx, err)
			units = 1
		}
	}()

	return c.step(jobCtx)
}

func (c *Control) step(ctx context.Context) (int, error) {
	if c.runUntil != nil {
		c.stepRunUntilDone(ctx)
		return 1, nil
	}

	switch c.Phase() {
	case PhaseStarting:
		if !c.startingInvoked {
			c.startingInvoked = true
			return 1, c.behavior.OnStarting(ctx, c)
		}

		if c.runCritical(ctx) {
			return 1, nil
		}

		if c.blocking.Load() > 0 {
			return 0, nil
		}

		c.phase.Store(int32(PhaseStarted))
		if err := c.behavior.OnStarted(ctx, c); err != nil {
			return 1, err
		}
		_ = c.startFuture.Complete(struct{}{})
		return 1, nil

	case PhaseStarted:
		if c.blocking.Load() > 0 {
			return c.unitIf(c.runCritical(ctx)), nil
		}

		next, ok := c.nextJob()
		if !ok {
			return 0, nil
		}

		if next.closing {
			c.phase.Store(int32(PhaseClosing))
			return 1, c.behavior.OnClosing(ctx, c)
		}

		c.runJob(ctx, next)
		return 1, nil

	case PhaseClosing:
		if c.blocking.Load() > 0 {
			return c.unitIf(c.runCritical(ctx)), nil
		}

		if c.runNext(ctx) {
			return 1, nil
		}

		c.phase.Store(int32(PhaseClosed))
		c.cancelTimers()
		if err := c.behavior.OnClosed(ctx, c); err != nil {
			return 1, err
		}

		c.dropJobs(gerrors.NewErrActorClosed(c.name))
		if ref := c.ref.Load(); ref != nil {
			ref.Close()
		}
		_ = c.closeFuture.Complete(struct{}{})
		return 1, nil

	default:
		return 0, nil
	}
}

func (c *Control) unitIf(ran bool) int {
	if ran {
		return 1
	}
	return 0
}

// runCritical runs the next critical job. Ordinary jobs met on the way are
// deferred until the phase unblocks.
func (c *Control) runCritical(ctx context.Context) bool {
	for {
		next, ok := c.jobs.Pop()
		if !ok {
			return false
		}

		if next.critical {
			c.runJob(ctx, next)
			return true
		}
		c.deferred = append(c.deferred, next)
	}
}

// nextJob pops the oldest job, deferred ones first
func (c *Control) nextJob() (*job, bool) {
	if len(c.deferred) > 0 {
		next := c.deferred[0]
		c.deferred[0] = nil
		c.deferred = c.deferred[1:]
		return next, true
	}
	return c.jobs.Pop()
}

// runNext runs the oldest job
func (c *Control) runNext(ctx context.Context) bool {
	next, ok := c.nextJob()
	if ok {
		c.runJob(ctx, next)
	}
	return ok
}

func (c *Control) runJob(ctx context.Context, next *job) {
	if next.fn == nil {
		return
	}

	c.current = next
	next.fn(ctx)
	c.current = nil

	if next.release {
		c.blocking.Dec()
	}

	if next.yield {
		c.yielded.Store(true)
	}
}

func (c *Control) stepRunUntilDone(ctx context.Context) {
	finished := false
	c.runUntil(ctx, func() { finished = true })
	if finished {
		c.runUntil = nil
	}
}

func (c *Control) enqueue(next *job) {
	if c.Phase().terminal() {
		c.discard(next, gerrors.NewErrActorClosed(c.name))
		return
	}

	c.jobs.Push(next)

	// the actor may have reached a terminal phase and drained its queue
	// between the check above and the push
	if c.Phase().terminal() {
		c.drainJobs(gerrors.NewErrActorClosed(c.name))
		return
	}

	if ref := c.ref.Load(); ref != nil {
		ref.wake()
	}
}

func (c *Control) discard(dropped *job, cause error) {
	if dropped.release {
		c.blocking.Dec()
	}

	if dropped.onDrop != nil {
		dropped.onDrop(cause)
	}
}

func (c *Control) dropJobs(cause error) {
	for _, dropped := range c.deferred {
		c.discard(dropped, cause)
	}
	c.deferred = nil
	c.drainJobs(cause)
}

// drainJobs discards every queued job. Only called once the actor is terminal.
func (c *Control) drainJobs(cause error) {
	c.drainMu.Lock()
	defer c.drainMu.Unlock()
	c.jobs.Drain(func(dropped *job) { c.discard(dropped, cause) })
}

// fail moves the actor to PhaseFailed and releases everything waiting on it
func (c *Control) fail(ctx context.Context, err error) {
	c.phase.Store(int32(PhaseFailed))
	c.runUntil = nil
	c.invokeOnFailure(ctx, err)
	c.cancelTimers()

	if c.current != nil {
		failed := c.current
		c.current = nil
		c.discard(failed, err)
	}

	c.dropJobs(gerrors.NewErrActorClosed(c.name))
	_ = c.startFuture.CompleteExceptionally(err)
	_ = c.closeFuture.CompleteExceptionally(err)
	if ref := c.ref.Load(); ref != nil {
		ref.Close()
	}
}

func (c *Control) invokeOnFailure(ctx context.Context, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			c.logger().Errorf("actor=(%s) OnFailure panicked: %v", c.name, recovered)
		}
	}()
	c.behavior.OnFailure(ctx, c, err)
}

func (c *Control) context(parent context.Context) context.Context {
	if parent != c.parentCtx || c.jobCtx == nil {
		c.parentCtx = parent
		c.jobCtx = future.WithExecutor(parent, c)
	}
	return c.jobCtx
}

func (c *Control) logger() log.Logger {
	if env := c.env.Load(); env != nil {
		return env.logger
	}
	return log.DiscardLogger
}
