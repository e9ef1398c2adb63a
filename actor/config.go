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
	"math"
	"time"

	"go.opentelemetry.io/otel/metric"

	gerrors "github.com/tochemey/goflow/errors"
	"github.com/tochemey/goflow/internal/validation"
	"github.com/tochemey/goflow/log"
)

// ErrorHandler receives the execution faults of the actors of a runner
type ErrorHandler func(ref *Reference, err error)

type config struct {
	threadCount            int
	baseIterationsPerActor int
	idleStrategy           func() IdleStrategy
	errorHandler           ErrorHandler
	imbalanceThreshold     float64
	initialBackoff         time.Duration
	maxBackoff             time.Duration
	samplePeriod           time.Duration
	sampleCount            int
	logger                 log.Logger
	shutdownTimeout        time.Duration
	lockOSThread           bool
	queueCapacity          int
	meterProvider          metric.MeterProvider
	clock                  func() time.Time
}

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		threadCount:            DefaultThreadCount,
		baseIterationsPerActor: DefaultBaseIterationsPerActor,
		idleStrategy:           DefaultIdleStrategy,
		imbalanceThreshold:     DefaultImbalanceThreshold,
		initialBackoff:         DefaultSchedulerInitialBackoff,
		maxBackoff:             DefaultSchedulerMaxBackoff,
		samplePeriod:           DefaultDurationSamplePeriod,
		sampleCount:            DefaultDurationSampleCount,
		logger:                 log.DefaultLogger,
		shutdownTimeout:        DefaultShutdownTimeout,
		lockOSThread:           true,
		queueCapacity:          DefaultRunnerQueueCapacity,
		clock:                  time.Now,
	}

	for _, opt := range opts {
		opt.Apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, gerrors.NewErrInvalidConfig(err)
	}
	return cfg, nil
}

// Validate checks every precondition and reports all the violations at once
func (c *config) Validate() error {
	return validation.New(validation.AllErrors()).
		AddValidator(validation.NewMinValidator("threadCount", c.threadCount, 1)).
		AddValidator(validation.NewMinValidator("baseIterationsPerActor", c.baseIterationsPerActor, 1)).
		AddAssertion(!math.IsNaN(c.imbalanceThreshold), "the [imbalanceThreshold] must be a number").
		AddValidator(validation.NewRangeValidator("imbalanceThreshold", c.imbalanceThreshold, 0.0, 1.0)).
		AddValidator(validation.NewMinValidator("schedulerInitialBackoff", c.initialBackoff, time.Nanosecond)).
		AddValidator(validation.NewMinValidator("schedulerMaxBackoff", c.maxBackoff, c.initialBackoff)).
		AddValidator(validation.NewMinValidator("durationSamplePeriod", c.samplePeriod, time.Nanosecond)).
		AddValidator(validation.NewMinValidator("durationSampleCount", c.sampleCount, 1)).
		AddValidator(validation.NewMinValidator("runnerQueueCapacity", c.queueCapacity, 1)).
		AddValidator(validation.NewMinValidator("shutdownTimeout", c.shutdownTimeout, time.Nanosecond)).
		AddValidator(validation.NewNotNilValidator("logger", c.logger)).
		AddValidator(validation.NewNotNilValidator("runnerIdleStrategy", c.idleStrategy)).
		AddValidator(validation.NewNotNilValidator("clock", c.clock)).
		Validate()
}
