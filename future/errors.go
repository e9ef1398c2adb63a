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

package future

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNilCause is returned when a future is failed without a cause.
	ErrNilCause = errors.New("future cannot be completed exceptionally with a nil cause")
	// ErrAlreadyCompleted is returned when completing a future that already holds a result.
	ErrAlreadyCompleted = errors.New("future is already completed")
	// ErrUnsupportedOperation is returned by OnComplete outside of an actor context.
	ErrUnsupportedOperation = errors.New("callbacks can only be registered from within an actor context")
	// ErrTimeout matches any *TimeoutError with errors.Is.
	ErrTimeout = errors.New("future timed out")
	// ErrNilFuture is the failure of a chained future whose continuation returned nil.
	ErrNilFuture = errors.New("continuation returned a nil future")
)

// ExecutionError wraps the cause of an exceptionally completed future
// when its result is read with Join or Get.
type ExecutionError struct {
	Cause error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("future completed exceptionally: %v", e.Cause)
}

// Unwrap returns the cause the future was failed with.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// TimeoutError is returned by GetTimeout when the future does not complete in time.
type TimeoutError struct {
	Timeout time.Duration
	Elapsed time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("future not completed within %s (elapsed %s)", e.Timeout, e.Elapsed)
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
