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

	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/goflow/internal/metric"
)

// RunnerStats is a point in time view of one runner
type RunnerStats struct {
	// runner index within its scheduler
	runner int
	// number of actors pinned to the runner
	actors int
	// sum of the pinned actors' duration averages
	duration time.Duration
}

// Runner returns the runner index within its scheduler
func (s RunnerStats) Runner() int {
	return s.runner
}

// ActorsCount returns the number of actors pinned to the runner
func (s RunnerStats) ActorsCount() int {
	return s.actors
}

// Duration returns the aggregated duration averages of the runner's actors
func (s RunnerStats) Duration() time.Duration {
	return s.duration
}

// schedulerMetrics records the scheduler instruments. A nil receiver is a no-op.
type schedulerMetrics struct {
	instruments  *metric.SchedulerMetric
	registration otelmetric.Registration
}

func newSchedulerMetrics(provider otelmetric.MeterProvider, counts func() []int) (*schedulerMetrics, error) {
	meter := metric.New(metric.WithMeterProvider(provider)).Meter()
	instruments, err := metric.NewSchedulerMetric(meter)
	if err != nil {
		return nil, err
	}

	registration, err := instruments.RegisterActorCounts(meter, counts)
	if err != nil {
		return nil, err
	}

	return &schedulerMetrics{
		instruments:  instruments,
		registration: registration,
	}, nil
}

func (m *schedulerMetrics) work(ctx context.Context, runner, units int) {
	if m != nil {
		m.instruments.RecordWork(ctx, runner, units)
	}
}

func (m *schedulerMetrics) fault(ctx context.Context, runner int, actor string) {
	if m != nil {
		m.instruments.RecordFault(ctx, runner, actor)
	}
}

func (m *schedulerMetrics) claim(ctx context.Context, runner int) {
	if m != nil {
		m.instruments.RecordClaim(ctx, runner)
	}
}

func (m *schedulerMetrics) migration(ctx context.Context, from, to int) {
	if m != nil {
		m.instruments.RecordMigration(ctx, from, to)
	}
}

func (m *schedulerMetrics) duration(ctx context.Context, runner int, duration time.Duration) {
	if m != nil {
		m.instruments.RecordDuration(ctx, runner, duration)
	}
}

func (m *schedulerMetrics) unregister() error {
	if m == nil || m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}
