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
	"runtime"
	"time"
)

const (
	// DefaultBaseIterationsPerActor defines the default number of DoWork calls per priority unit
	DefaultBaseIterationsPerActor = 5
	// DefaultImbalanceThreshold defines the default relative load gap that triggers a migration
	DefaultImbalanceThreshold = 0.25
	// DefaultSchedulerInitialBackoff defines the default delay before rebalancing after a migration
	DefaultSchedulerInitialBackoff = 100 * time.Millisecond
	// DefaultSchedulerMaxBackoff defines the default delay before rebalancing a balanced system
	DefaultSchedulerMaxBackoff = 10 * time.Second
	// DefaultDurationSamplePeriod defines the default interval between two duration samples
	DefaultDurationSamplePeriod = 10 * time.Millisecond
	// DefaultDurationSampleCount defines the default number of duration samples kept per actor
	DefaultDurationSampleCount = 10
	// DefaultRunnerQueueCapacity defines the default capacity of a runner's command ring
	DefaultRunnerQueueCapacity = 1024
	// DefaultShutdownTimeout defines the default bounded join on close
	DefaultShutdownTimeout = 10 * time.Second

	defaultIdleMaxSpins  = 100
	defaultIdleMaxYields = 100
	defaultIdleMinPark   = time.Microsecond
	defaultIdleMaxPark   = time.Millisecond
)

// DefaultThreadCount defines the default number of runners of a dynamic scheduler
var DefaultThreadCount = runtime.NumCPU()

// DefaultIdleStrategy creates the idle strategy runners use unless configured otherwise
func DefaultIdleStrategy() IdleStrategy {
	return NewBackoffIdleStrategy(defaultIdleMaxSpins, defaultIdleMaxYields, defaultIdleMinPark, defaultIdleMaxPark)
}
