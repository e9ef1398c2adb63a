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

package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSchedulerNotStarted is returned when attempting to use the scheduler before it has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrSchedulerAlreadyStarted is returned when Start is called on a running scheduler.
	ErrSchedulerAlreadyStarted = errors.New("scheduler has already started")

	// ErrSchedulerClosed is returned when work is submitted to a scheduler that has been closed.
	ErrSchedulerClosed = errors.New("scheduler is closed")

	// ErrInvalidConfig is returned when the scheduler options violate one of the documented preconditions.
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrUndefinedActor is returned when a nil actor is handed to the scheduler.
	ErrUndefinedActor = errors.New("actor is not defined")

	// ErrActorClosed is returned when an operation targets an actor that has been closed or has failed.
	ErrActorClosed = errors.New("actor is closed")

	// ErrActorAlreadyScheduled is returned when an actor control is handed to a scheduler twice.
	ErrActorAlreadyScheduled = errors.New("actor is already scheduled")

	// ErrActorNotScheduled is returned when an actor control uses scheduler services before being scheduled.
	ErrActorNotScheduled = errors.New("actor is not scheduled")

	// ErrActorPanic indicates that an actor job panicked while being executed by its runner.
	ErrActorPanic = errors.New("actor panicked")

	// ErrShutdownTimeout indicates that a scheduler goroutine did not terminate within its shutdown budget.
	ErrShutdownTimeout = errors.New("shutdown timed out")

	// ErrInvalidCronExpression is returned when a cron timer cannot parse its expression.
	ErrInvalidCronExpression = errors.New("invalid cron expression")
)

// NewErrInvalidConfig wraps the validation violations with ErrInvalidConfig.
func NewErrInvalidConfig(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}

// NewErrActorPanic formats an ErrActorPanic for the given actor and recovered value.
func NewErrActorPanic(actorName string, recovered any) error {
	if err, ok := recovered.(error); ok {
		return fmt.Errorf("actor=(%s) %w: %w", actorName, ErrActorPanic, err)
	}
	return fmt.Errorf("actor=(%s) %w: %v", actorName, ErrActorPanic, recovered)
}

// NewErrShutdownTimeout formats an ErrShutdownTimeout for the named component.
func NewErrShutdownTimeout(component string, timeout time.Duration) error {
	return fmt.Errorf("%s did not terminate within %s: %w", component, timeout, ErrShutdownTimeout)
}

// NewErrActorClosed formats an ErrActorClosed with the given actor name.
func NewErrActorClosed(actorName string) error {
	return fmt.Errorf("actor=(%s) %w", actorName, ErrActorClosed)
}
