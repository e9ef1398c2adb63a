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

package metric

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	runnerKey = attribute.Key("runner")
	actorKey  = attribute.Key("actor")
)

// SchedulerMetric defines the scheduler instrumentation
type SchedulerMetric struct {
	// Specifies the work units reported by actors, per runner
	workCount metric.Int64Counter
	// Specifies the number of actor faults, per runner
	faultCount metric.Int64Counter
	// Specifies the number of actors claimed by the balancer
	claimCount metric.Int64Counter
	// Specifies the number of actors moved between runners
	migrationCount metric.Int64Counter
	// Specifies the sampled actor durations in microseconds
	actorDuration metric.Int64Histogram
	// Specifies the number of actors pinned to each runner
	actorsPerRunner metric.Int64ObservableGauge
}

// NewSchedulerMetric creates an instance of SchedulerMetric
func NewSchedulerMetric(meter metric.Meter) (*SchedulerMetric, error) {
	schedulerMetric := new(SchedulerMetric)
	var err error

	if schedulerMetric.workCount, err = meter.Int64Counter(
		"scheduler_runner_work_count",
		metric.WithDescription("Total number of work units performed by the actors of a runner"),
	); err != nil {
		return nil, fmt.Errorf("failed to create workCount instrument, %w", err)
	}

	if schedulerMetric.faultCount, err = meter.Int64Counter(
		"scheduler_actor_fault_count",
		metric.WithDescription("Total number of actor execution faults"),
	); err != nil {
		return nil, fmt.Errorf("failed to create faultCount instrument, %w", err)
	}

	if schedulerMetric.claimCount, err = meter.Int64Counter(
		"scheduler_claim_count",
		metric.WithDescription("Total number of actors claimed by the balancer"),
	); err != nil {
		return nil, fmt.Errorf("failed to create claimCount instrument, %w", err)
	}

	if schedulerMetric.migrationCount, err = meter.Int64Counter(
		"scheduler_migration_count",
		metric.WithDescription("Total number of actors migrated between runners"),
	); err != nil {
		return nil, fmt.Errorf("failed to create migrationCount instrument, %w", err)
	}

	if schedulerMetric.actorDuration, err = meter.Int64Histogram(
		"scheduler_actor_duration",
		metric.WithDescription("Sampled duration of one actor's share of a duty cycle pass"),
		metric.WithUnit("us"),
	); err != nil {
		return nil, fmt.Errorf("failed to create actorDuration instrument, %w", err)
	}

	if schedulerMetric.actorsPerRunner, err = meter.Int64ObservableGauge(
		"scheduler_runner_actor_count",
		metric.WithDescription("Number of actors pinned to a runner"),
	); err != nil {
		return nil, fmt.Errorf("failed to create actorsPerRunner instrument, %w", err)
	}

	return schedulerMetric, nil
}

// RecordWork adds the work units of one runner pass
func (x *SchedulerMetric) RecordWork(ctx context.Context, runner int, units int) {
	if units <= 0 {
		return
	}
	x.workCount.Add(ctx, int64(units), metric.WithAttributes(runnerKey.Int(runner)))
}

// RecordFault counts one actor fault
func (x *SchedulerMetric) RecordFault(ctx context.Context, runner int, actor string) {
	x.faultCount.Add(ctx, 1, metric.WithAttributes(runnerKey.Int(runner), actorKey.String(actor)))
}

// RecordClaim counts one actor claimed onto a runner
func (x *SchedulerMetric) RecordClaim(ctx context.Context, runner int) {
	x.claimCount.Add(ctx, 1, metric.WithAttributes(runnerKey.Int(runner)))
}

// RecordMigration counts one actor moved between two runners
func (x *SchedulerMetric) RecordMigration(ctx context.Context, from, to int) {
	x.migrationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("from", from),
		attribute.Int("to", to)))
}

// RecordDuration records one sampled actor duration
func (x *SchedulerMetric) RecordDuration(ctx context.Context, runner int, duration time.Duration) {
	x.actorDuration.Record(ctx, duration.Microseconds(), metric.WithAttributes(runnerKey.Int(runner)))
}

// RegisterActorCounts registers the callback feeding the actors per runner gauge.
// counts is invoked at collection time and must be safe for concurrent use.
func (x *SchedulerMetric) RegisterActorCounts(meter metric.Meter, counts func() []int) (metric.Registration, error) {
	return meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		for runner, count := range counts() {
			observer.ObserveInt64(x.actorsPerRunner, int64(count), metric.WithAttributes(runnerKey.Int(runner)))
		}
		return nil
	}, x.actorsPerRunner)
}
