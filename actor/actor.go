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
)

const (
	// PriorityIdle suspends an actor for the current pass
	PriorityIdle = 0
	// PriorityLow is the default recommended priority
	PriorityLow = 1
	// PriorityRegular runs an actor ten times the base iterations per pass
	PriorityRegular = 10
	// PriorityHigh is the highest priority an actor can have
	PriorityHigh = 100
)

// Actor is a unit of cooperatively scheduled state and behavior.
//
// An actor owns no goroutine. Its runner calls DoWork repeatedly during a
// duty cycle pass, at most Priority(now) times the configured base
// iterations, and stops as soon as DoWork reports no work. All the actor's
// mutable state must only be touched from within DoWork; other goroutines
// reach it through queues.
type Actor interface {
	// Name returns the actor name used in logs and metrics
	Name() string
	// Priority returns the actor priority for the pass starting at now.
	// The value is clamped to [PriorityIdle, PriorityHigh].
	Priority(now time.Time) int
	// DoWork performs a bounded amount of work and returns how much was done.
	// Zero means no work is currently available. An error is an execution
	// fault reported to the runner error handler.
	DoWork(ctx context.Context) (int, error)
}

func clampPriority(priority int) int {
	return min(max(priority, PriorityIdle), PriorityHigh)
}
