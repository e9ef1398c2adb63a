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

package testkit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flowchartsman/retry"

	"github.com/tochemey/goflow/actor"
	"github.com/tochemey/goflow/future"
	"github.com/tochemey/goflow/log"
)

const (
	awaitAttempts     = 50
	awaitInitialDelay = time.Millisecond
	awaitMaxDelay     = 100 * time.Millisecond
)

var errPending = errors.New("not completed yet")

// TestKit drives actors on a controlled scheduler: passes only run on the
// test goroutine, when the test asks for them.
type TestKit struct {
	scheduler     *actor.ControlledScheduler
	kt            *testing.T
	logger        log.Logger
	schedulerOpts []actor.Option
}

// New creates an instance of TestKit. The scheduler is closed when the test ends.
func New(t *testing.T, opts ...Option) *TestKit {
	t.Helper()
	testkit := &TestKit{
		kt:     t,
		logger: log.DiscardLogger,
	}

	for _, opt := range opts {
		opt.Apply(testkit)
	}

	schedulerOpts := append([]actor.Option{actor.WithLogger(testkit.logger)}, testkit.schedulerOpts...)
	scheduler, err := actor.NewControlledScheduler(schedulerOpts...)
	if err != nil {
		t.Fatal(err.Error())
	}

	if err := scheduler.Start(); err != nil {
		t.Fatal(err.Error())
	}

	t.Cleanup(scheduler.Close)
	testkit.scheduler = scheduler
	return testkit
}

// Scheduler returns the testkit scheduler
func (k *TestKit) Scheduler() *actor.ControlledScheduler {
	return k.scheduler
}

// Schedule hands an actor to the scheduler
func (k *TestKit) Schedule(a actor.Actor) *actor.Reference {
	k.kt.Helper()
	ref, err := k.scheduler.Schedule(a)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return ref
}

// Spawn creates a Control, schedules it and runs it until it is idle
func (k *TestKit) Spawn(name string, behavior actor.Behavior, opts ...actor.ControlOption) *actor.Control {
	k.kt.Helper()
	ctl := actor.New(name, behavior, opts...)
	k.Schedule(ctl)
	k.scheduler.WorkUntilDone()
	return ctl
}

// Submit runs fn inside the actor and returns once every actor is idle
func (k *TestKit) Submit(ctl *actor.Control, fn actor.Job) {
	ctl.Run(fn)
	k.scheduler.WorkUntilDone()
}

// WorkUntilDone runs passes until no actor has work left
func (k *TestKit) WorkUntilDone() {
	k.scheduler.WorkUntilDone()
}

// Eventually runs passes until condition holds. It fails the test once the
// retries are exhausted.
func (k *TestKit) Eventually(condition func() bool) {
	k.kt.Helper()
	retrier := retry.NewRetrier(awaitAttempts, awaitInitialDelay, awaitMaxDelay)
	err := retrier.RunContext(context.Background(), func(context.Context) error {
		k.scheduler.WorkUntilDone()
		if condition() {
			return nil
		}
		return errPending
	})

	if err != nil {
		k.kt.Fatal("condition never satisfied")
	}
}

// Shutdown closes the scheduler ahead of the test end
func (k *TestKit) Shutdown() {
	k.scheduler.Close()
}

// Await runs passes until f is completed and returns its result
func Await[T any](k *TestKit, f *future.Future[T]) (T, error) {
	k.kt.Helper()
	k.Eventually(f.IsDone)
	return f.Join()
}
