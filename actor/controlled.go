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

// ControlledScheduler runs its single runner on the caller's goroutine,
// one pass at a time. It makes actor interactions deterministic in tests.
type ControlledScheduler struct {
	*base
	runner *runner
}

// enforce compilation error
var _ Scheduler = (*ControlledScheduler)(nil)

// NewControlledScheduler creates a scheduler that only runs passes when
// RunPass or WorkUntilDone is called
func NewControlledScheduler(opts ...Option) (*ControlledScheduler, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	// the runner never owns a goroutine
	cfg.lockOSThread = false
	scheduler := &ControlledScheduler{base: newBase(cfg)}
	scheduler.runner = newRunner(0, cfg, nil)
	return scheduler, nil
}

// Start starts the timer service
func (x *ControlledScheduler) Start() error {
	return x.start(actorCounts([]*runner{x.runner}), func() {
		x.runner.metrics = x.metrics
	})
}

// Schedule admits the actor; it is pinned on the next pass
func (x *ControlledScheduler) Schedule(actor Actor) (*Reference, error) {
	ref, err := x.prepare(actor)
	if err != nil {
		return nil, err
	}

	x.runner.admit(ref)
	return ref, nil
}

// RunPass runs exactly one duty cycle pass and returns the work performed
func (x *ControlledScheduler) RunPass() int {
	return x.runner.pass()
}

// WorkUntilDone runs passes until two consecutive passes perform no work
// and no command is pending. The second pass covers actors that yielded
// during the first one.
func (x *ControlledScheduler) WorkUntilDone() {
	idle := 0
	for idle < 2 {
		if x.runner.pass() > 0 || x.runner.hasPendingCommands() {
			idle = 0
			continue
		}
		idle++
	}
}

// Close stops the timer service
func (x *ControlledScheduler) Close() {
	x.close(func() error {
		x.runner.stop()
		return nil
	})
}

// Stats returns a snapshot of the runner
func (x *ControlledScheduler) Stats() []RunnerStats {
	return runnerStats([]*runner{x.runner})
}
