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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	t.Run("With invalid config", func(t *testing.T) {
		violation := errors.New("threadCount must be greater than zero")
		err := NewErrInvalidConfig(violation)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorIs(t, err, violation)
		assert.EqualError(t, err, "invalid scheduler configuration: threadCount must be greater than zero")
	})
	t.Run("With actor panic from an error value", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewErrActorPanic("worker", cause)
		assert.ErrorIs(t, err, ErrActorPanic)
		assert.ErrorIs(t, err, cause)
		assert.EqualError(t, err, "actor=(worker) actor panicked: boom")
	})
	t.Run("With actor panic from a plain value", func(t *testing.T) {
		err := NewErrActorPanic("worker", 42)
		assert.ErrorIs(t, err, ErrActorPanic)
		assert.EqualError(t, err, "actor=(worker) actor panicked: 42")
	})
	t.Run("With shutdown timeout", func(t *testing.T) {
		err := NewErrShutdownTimeout("balancer", 2*time.Second)
		assert.ErrorIs(t, err, ErrShutdownTimeout)
		assert.EqualError(t, err, "balancer did not terminate within 2s: shutdown timed out")
	})
	t.Run("With actor closed", func(t *testing.T) {
		err := NewErrActorClosed("exporter")
		assert.ErrorIs(t, err, ErrActorClosed)
		assert.EqualError(t, err, "actor=(exporter) actor is closed")
	})
}
