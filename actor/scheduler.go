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
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/goflow/errors"
	"github.com/tochemey/goflow/internal/errorschain"
	"github.com/tochemey/goflow/log"
)

// Scheduler runs actors on a set of runners
type Scheduler interface {
	// Start starts the scheduler goroutines
	Start() error
	// Schedule hands an actor to the scheduler and returns its reference.
	// The actor is admitted to a runner asynchronously.
	Schedule(actor Actor) (*Reference, error)
	// Close stops the scheduler. Joins are bounded by the shutdown timeout;
	// a runner that does not stop in time is reported as a warning.
	Close()
	// Stats returns a snapshot of every runner
	Stats() []RunnerStats
}

// environment gives scheduled actors access to the scheduler services
type environment struct {
	timers *timerService
	logger log.Logger
}

// binder is implemented by actors that need the scheduler services
type binder interface {
	bind(ref *Reference, env *environment) error
}

// base holds what every scheduler variant shares
type base struct {
	cfg     *config
	logger  log.Logger
	env     *environment
	metrics *schedulerMetrics

	mu      sync.Mutex
	started *atomic.Bool
	closed  *atomic.Bool
}

func newBase(cfg *config) *base {
	return &base{
		cfg:    cfg,
		logger: cfg.logger,
		env: &environment{
			timers: newTimerService(cfg.logger, cfg.shutdownTimeout),
			logger: cfg.logger,
		},
		started: atomic.NewBool(false),
		closed:  atomic.NewBool(false),
	}
}

// start runs launch once the state checks pass
func (b *base) start(counts func() []int, launch func()) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed.Load() {
		return gerrors.ErrSchedulerClosed
	}

	if b.started.Load() {
		return gerrors.ErrSchedulerAlreadyStarted
	}

	metrics, err := newSchedulerMetrics(b.cfg.meterProvider, counts)
	if err != nil {
		return err
	}

	b.metrics = metrics
	b.env.timers.Start()
	launch()
	b.started.Store(true)
	return nil
}

// prepare validates the scheduler state and wraps the actor in a reference
func (b *base) prepare(actor Actor) (*Reference, error) {
	if actor == nil {
		return nil, gerrors.ErrUndefinedActor
	}

	if b.closed.Load() {
		return nil, gerrors.ErrSchedulerClosed
	}

	if !b.started.Load() {
		return nil, gerrors.ErrSchedulerNotStarted
	}

	ref := newReference(actor, b.cfg.sampleCount)
	if bindable, ok := actor.(binder); ok {
		if err := bindable.bind(ref, b.env); err != nil {
			return nil, err
		}
	}
	return ref, nil
}

// close runs shutdown once. It returns false when already closed.
func (b *base) close(shutdown func() error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed.CompareAndSwap(false, true) {
		return false
	}

	if !b.started.Load() {
		return true
	}

	if err := shutdown(); err != nil {
		b.logger.Warnf("scheduler shutdown incomplete: %v", err)
	}

	b.env.timers.Stop()
	if err := b.metrics.unregister(); err != nil {
		b.logger.Warnf("failed to unregister scheduler metrics: %v", err)
	}
	return true
}

// joinWithin waits for done at most timeout
func joinWithin(done <-chan struct{}, timeout time.Duration, component string) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return gerrors.NewErrShutdownTimeout(component, timeout)
	}
}

func runnerStats(runners []*runner) []RunnerStats {
	stats := make([]RunnerStats, len(runners))
	for index, r := range runners {
		stats[index] = r.stats()
	}
	return stats
}

func actorCounts(runners []*runner) func() []int {
	return func() []int {
		counts := make([]int, len(runners))
		for index, r := range runners {
			counts[index] = len(r.Actors())
		}
		return counts
	}
}

// SingleThreadScheduler runs every actor on one runner, without a balancer
type SingleThreadScheduler struct {
	*base
	runner *runner
}

// enforce compilation error
var _ Scheduler = (*SingleThreadScheduler)(nil)

// NewSingleThreadScheduler creates a scheduler with one runner.
// WithThreadCount and the balancing options are ignored.
func NewSingleThreadScheduler(opts ...Option) (*SingleThreadScheduler, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &SingleThreadScheduler{base: newBase(cfg)}, nil
}

// Start starts the runner goroutine
func (x *SingleThreadScheduler) Start() error {
	return x.start(func() []int { return actorCounts(x.runners())() }, func() {
		x.runner = newRunner(0, x.cfg, x.metrics)
		go x.runner.run()
		x.logger.Debug("single thread scheduler started")
	})
}

// Schedule admits the actor directly into the runner
func (x *SingleThreadScheduler) Schedule(actor Actor) (*Reference, error) {
	ref, err := x.prepare(actor)
	if err != nil {
		return nil, err
	}

	x.runner.admit(ref)
	return ref, nil
}

// Close stops the runner after its current pass
func (x *SingleThreadScheduler) Close() {
	x.close(func() error {
		x.runner.stop()
		return joinWithin(x.runner.done, x.cfg.shutdownTimeout, "runner 0")
	})
}

// Stats returns a snapshot of the runner
func (x *SingleThreadScheduler) Stats() []RunnerStats {
	return runnerStats(x.runners())
}

func (x *SingleThreadScheduler) runners() []*runner {
	if !x.started.Load() {
		return nil
	}
	return []*runner{x.runner}
}

// DynamicScheduler runs actors on a pool of runners and rebalances them
// according to their measured durations
type DynamicScheduler struct {
	*base
	runners  []*runner
	balancer *balancer
	pool     *errgroup.Group
}

// enforce compilation error
var _ Scheduler = (*DynamicScheduler)(nil)

// NewDynamicScheduler creates a scheduler with WithThreadCount runners and a balancer
func NewDynamicScheduler(opts ...Option) (*DynamicScheduler, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &DynamicScheduler{base: newBase(cfg)}, nil
}

// Start starts the runner pool and the balancer
func (x *DynamicScheduler) Start() error {
	return x.start(x.actorCounts, func() {
		x.runners = make([]*runner, x.cfg.threadCount)
		for index := range x.runners {
			x.runners[index] = newRunner(index, x.cfg, x.metrics)
		}

		x.pool = new(errgroup.Group)
		for _, r := range x.runners {
			x.pool.Go(func() error {
				r.run()
				return nil
			})
		}

		x.balancer = newBalancer(x.runners, x.cfg, x.metrics)
		go x.balancer.run()
		x.logger.Debugf("dynamic scheduler started with %d runners", len(x.runners))
	})
}

// Schedule hands the actor to the balancer. It is claimed by a runner
// shortly after.
func (x *DynamicScheduler) Schedule(actor Actor) (*Reference, error) {
	ref, err := x.prepare(actor)
	if err != nil {
		return nil, err
	}

	x.balancer.submit(ref)
	return ref, nil
}

// Close stops the balancer then the runners and joins them, each join
// bounded by the shutdown timeout
func (x *DynamicScheduler) Close() {
	x.close(func() error {
		x.balancer.stop()
		for _, r := range x.runners {
			r.stop()
		}

		poolDone := make(chan struct{})
		go func() {
			_ = x.pool.Wait()
			close(poolDone)
		}()

		return errorschain.New(errorschain.ReturnAll()).
			AddErrorFn(func() error { return joinWithin(x.balancer.done, x.cfg.shutdownTimeout, "balancer") }).
			AddErrorFn(func() error { return joinWithin(poolDone, x.cfg.shutdownTimeout, "runner pool") }).
			Error()
	})
}

// Stats returns a snapshot of every runner
func (x *DynamicScheduler) Stats() []RunnerStats {
	if !x.started.Load() {
		return nil
	}
	return runnerStats(x.runners)
}

func (x *DynamicScheduler) actorCounts() []int {
	if !x.started.Load() {
		return nil
	}
	return actorCounts(x.runners)()
}
