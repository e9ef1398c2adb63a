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

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/goflow/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(cfg *config)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*config)

// Apply implements Option
func (f OptionFunc) Apply(c *config) {
	f(c)
}

// WithThreadCount sets the number of runners of a dynamic scheduler
func WithThreadCount(count int) Option {
	return OptionFunc(func(c *config) {
		c.threadCount = count
	})
}

// WithBaseIterationsPerActor sets how many DoWork calls one priority unit is worth
func WithBaseIterationsPerActor(iterations int) Option {
	return OptionFunc(func(c *config) {
		c.baseIterationsPerActor = iterations
	})
}

// WithRunnerIdleStrategy sets the factory creating each runner's idle strategy
func WithRunnerIdleStrategy(factory func() IdleStrategy) Option {
	return OptionFunc(func(c *config) {
		c.idleStrategy = factory
	})
}

// WithRunnerErrorHandler sets the handler receiving actor faults.
// A nil handler restores the default, which logs the fault.
func WithRunnerErrorHandler(handler ErrorHandler) Option {
	return OptionFunc(func(c *config) {
		c.errorHandler = handler
	})
}

// WithImbalanceThreshold sets the minimum relative load gap, within [0, 1],
// between two runners that triggers a migration
func WithImbalanceThreshold(threshold float64) Option {
	return OptionFunc(func(c *config) {
		c.imbalanceThreshold = threshold
	})
}

// WithSchedulerInitialBackoff sets the balancing delay following a migration
func WithSchedulerInitialBackoff(backoff time.Duration) Option {
	return OptionFunc(func(c *config) {
		c.initialBackoff = backoff
	})
}

// WithSchedulerMaxBackoff sets the balancing delay following a pass that moved nothing
func WithSchedulerMaxBackoff(backoff time.Duration) Option {
	return OptionFunc(func(c *config) {
		c.maxBackoff = backoff
	})
}

// WithDurationSamplePeriod sets the interval between two duration samples
func WithDurationSamplePeriod(period time.Duration) Option {
	return OptionFunc(func(c *config) {
		c.samplePeriod = period
	})
}

// WithDurationSampleCount sets the number of duration samples kept per actor.
// The count is rounded up to the next power of two.
func WithDurationSampleCount(count int) Option {
	return OptionFunc(func(c *config) {
		c.sampleCount = count
	})
}

// WithLogger sets the scheduler logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(c *config) {
		c.logger = logger
	})
}

// WithShutdownTimeout sets the bounded wait of each join performed on close
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(c *config) {
		c.shutdownTimeout = timeout
	})
}

// WithLockOSThread sets whether each runner goroutine is pinned to its OS thread
func WithLockOSThread(lock bool) Option {
	return OptionFunc(func(c *config) {
		c.lockOSThread = lock
	})
}

// WithRunnerQueueCapacity sets the capacity of each runner's command ring buffer
func WithRunnerQueueCapacity(capacity int) Option {
	return OptionFunc(func(c *config) {
		c.queueCapacity = capacity
	})
}

// WithMeterProvider sets the OpenTelemetry meter provider. The global
// provider is used otherwise.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(c *config) {
		c.meterProvider = provider
	})
}

// WithClock sets the time source used for priorities, sampling and balancing
func WithClock(clock func() time.Time) Option {
	return OptionFunc(func(c *config) {
		c.clock = clock
	})
}
