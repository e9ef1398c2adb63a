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
	"time"

	gerrors "github.com/tochemey/goflow/errors"
)

// Timer is a pending delayed, periodic or cron job of a Control
type Timer struct {
	key string
	ctl *Control
}

// Cancel stops the timer. A job already queued by the timer still runs.
func (t *Timer) Cancel() {
	t.ctl.cancelTimer(t.key)
}

// RunDelayed runs fn inside the actor once, after delay
func (c *Control) RunDelayed(delay time.Duration, fn Job) (*Timer, error) {
	return c.scheduleTimer(fn, true, func(timers *timerService, key string, task func()) error {
		return timers.ScheduleOnce(key, delay, task)
	})
}

// RunAtFixedRate runs fn inside the actor every interval until the timer
// is cancelled or the actor closes
func (c *Control) RunAtFixedRate(interval time.Duration, fn Job) (*Timer, error) {
	return c.scheduleTimer(fn, false, func(timers *timerService, key string, task func()) error {
		return timers.ScheduleAtFixedRate(key, interval, task)
	})
}

// RunWithCron runs fn inside the actor according to the cron expression
func (c *Control) RunWithCron(cronExpression string, fn Job) (*Timer, error) {
	return c.scheduleTimer(fn, false, func(timers *timerService, key string, task func()) error {
		return timers.ScheduleWithCron(key, cronExpression, task)
	})
}

func (c *Control) scheduleTimer(fn Job, once bool, register func(*timerService, string, func()) error) (*Timer, error) {
	env := c.env.Load()
	if env == nil {
		return nil, gerrors.ErrActorNotScheduled
	}

	if c.Phase().terminal() {
		return nil, gerrors.NewErrActorClosed(c.name)
	}

	key := newTimerKey()
	c.timers.Add(key)
	task := func() {
		if once {
			c.timers.Remove(key)
		}
		c.enqueue(&job{fn: fn})
	}

	if err := register(env.timers, key, task); err != nil {
		c.timers.Remove(key)
		return nil, err
	}

	// cancelTimers may have run between the phase check and the registration
	if c.Phase().terminal() {
		c.cancelTimer(key)
		return nil, gerrors.NewErrActorClosed(c.name)
	}
	return &Timer{key: key, ctl: c}, nil
}

func (c *Control) cancelTimer(key string) {
	if !c.timers.Contains(key) {
		return
	}

	c.timers.Remove(key)
	if env := c.env.Load(); env != nil {
		env.timers.Cancel(key)
	}
}

func (c *Control) cancelTimers() {
	for _, key := range c.timers.ToSlice() {
		c.cancelTimer(key)
	}
}
