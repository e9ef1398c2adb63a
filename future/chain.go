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

import "fmt"

// AndThen returns a future completed with the outcome of the future that
// next returns. next runs through exec once f is completed and receives
// f's value and cause, so it may recover from a failure.
func AndThen[T, U any](f *Future[T], next func(T, error) *Future[U], exec Executor) *Future[U] {
	chained := New[U]()
	f.OnCompleteOn(exec, func(value T, err error) {
		defer recoverInto(chained)
		following := next(value, err)
		if following == nil {
			_ = chained.CompleteExceptionally(ErrNilFuture)
			return
		}
		following.OnCompleteOn(nil, func(result U, cause error) {
			settle(chained, result, cause)
		})
	})
	return chained
}

// ThenApply returns a future completed with fn applied to f's value.
// A failure of f short-circuits: fn is skipped and the cause propagates.
func ThenApply[T, U any](f *Future[T], fn func(T) (U, error), exec Executor) *Future[U] {
	chained := New[U]()
	f.OnCompleteOn(exec, func(value T, err error) {
		if err != nil {
			_ = chained.CompleteExceptionally(err)
			return
		}
		defer recoverInto(chained)
		result, cause := fn(value)
		settle(chained, result, cause)
	})
	return chained
}

func settle[U any](f *Future[U], value U, cause error) {
	if cause != nil {
		_ = f.CompleteExceptionally(cause)
		return
	}
	_ = f.Complete(value)
}

func recoverInto[U any](f *Future[U]) {
	if r := recover(); r != nil {
		_ = f.CompleteExceptionally(fmt.Errorf("continuation panicked: %v", r))
	}
}
