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

package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRangeValidator(t *testing.T) {
	t.Run("With value inside the range", func(t *testing.T) {
		assert.NoError(t, NewRangeValidator("threshold", 0.25, 0.0, 1.0).Validate())
		assert.NoError(t, NewRangeValidator("threshold", 1.0, 0.0, 1.0).Validate())
	})
	t.Run("With value outside the range", func(t *testing.T) {
		err := NewRangeValidator("threshold", 1.5, 0.0, 1.0).Validate()
		assert.EqualError(t, err, "the [threshold] must be within [0, 1], got 1.5")
	})
}

func TestMinValidator(t *testing.T) {
	assert.NoError(t, NewMinValidator("threads", 1, 1).Validate())
	assert.Error(t, NewMinValidator("threads", 0, 1).Validate())
	assert.EqualError(t, NewMinValidator("backoff", time.Millisecond, time.Second).Validate(),
		"the [backoff] must be at least 1s, got 1ms")
}

func TestNotNilValidator(t *testing.T) {
	var handler func(error)
	var ptr *int

	assert.NoError(t, NewNotNilValidator("value", 1).Validate())
	assert.NoError(t, NewNotNilValidator("handler", func(error) {}).Validate())
	assert.EqualError(t, NewNotNilValidator("handler", handler).Validate(), "the [handler] is required")
	assert.Error(t, NewNotNilValidator("ptr", ptr).Validate())
	assert.Error(t, NewNotNilValidator("nothing", nil).Validate())
}
