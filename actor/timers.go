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
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	quartzjob "github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goflow/errors"
	"github.com/tochemey/goflow/log"
)

// timerService fires delayed, periodic and cron triggers for the actors of
// a scheduler. A trigger never runs actor code itself: its task enqueues a
// job into the owning actor.
type timerService struct {
	// helps lock concurrent access
	mu sync.Mutex
	// underlying Scheduler
	quartzScheduler quartz.Scheduler
	// states whether the quartzScheduler has started or not
	started *atomic.Bool
	logger  log.Logger
	// bounded wait for the quartz goroutines on stop
	stopTimeout time.Duration
	cancel      context.CancelFunc
}

// newTimerService creates an instance of timerService
func newTimerService(logger log.Logger, stopTimeout time.Duration) *timerService {
	// create an instance of quartz scheduler with logger off
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	return &timerService{
		started:         atomic.NewBool(false),
		quartzScheduler: quartzScheduler,
		logger:          logger,
		stopTimeout:     stopTimeout,
	}
}

// Start starts the timer service
func (x *timerService) Start() {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.started.Load() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	x.cancel = cancel
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Debug("timer service started")
}

// Stop stops the timer service and waits, within the stop timeout, for its
// goroutines to exit
func (x *timerService) Stop() {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() {
		return
	}

	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.cancel()
	x.started.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)
	x.logger.Debug("timer service stopped")
}

// ScheduleOnce runs task once after delay
func (x *timerService) ScheduleOnce(key string, delay time.Duration, task func()) error {
	return x.schedule(key, quartz.NewRunOnceTrigger(delay), task)
}

// ScheduleAtFixedRate runs task every interval
func (x *timerService) ScheduleAtFixedRate(key string, interval time.Duration, task func()) error {
	return x.schedule(key, quartz.NewSimpleTrigger(interval), task)
}

// ScheduleWithCron runs task according to a cron expression evaluated in the local time zone
func (x *timerService) ScheduleWithCron(key, cronExpression string, task func()) error {
	trigger, err := quartz.NewCronTriggerWithLoc(cronExpression, time.Now().Location())
	if err != nil {
		return fmt.Errorf("%w: %w", gerrors.ErrInvalidCronExpression, err)
	}
	return x.schedule(key, trigger, task)
}

// Cancel removes the timer with the given key. Cancelling a timer that
// already fired its last time is a no-op.
func (x *timerService) Cancel(key string) {
	if !x.started.Load() {
		return
	}
	_ = x.quartzScheduler.DeleteJob(quartz.NewJobKey(key))
}

func (x *timerService) schedule(key string, trigger quartz.Trigger, task func()) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}

	functionJob := quartzjob.NewFunctionJob[bool](
		func(context.Context) (bool, error) {
			task()
			return true, nil
		},
	)

	detail := quartz.NewJobDetail(functionJob, quartz.NewJobKey(key))
	return x.quartzScheduler.ScheduleJob(detail, trigger)
}

// newTimerKey creates a new timer key
func newTimerKey() string {
	return uuid.NewString()
}
