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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestChain(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	failing := func(err error) Validator { return ValidatorFunc(func() error { return err }) }

	testCases := []struct {
		name     string
		chain    *Chain
		expected []error
	}{
		{
			name:  "empty chain",
			chain: New(),
		},
		{
			name:  "every validator passes",
			chain: New().AddValidator(failing(nil)).AddAssertion(true, "unused"),
		},
		{
			name:     "all errors reported in order",
			chain:    New(AllErrors()).AddValidator(failing(first)).AddValidator(failing(nil)).AddValidator(failing(second)),
			expected: []error{first, second},
		},
		{
			name:     "fail fast stops at the first violation",
			chain:    New(FailFast()).AddValidator(failing(first)).AddValidator(failing(second)),
			expected: []error{first},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.chain.Validate()
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.expected, multierr.Errors(err))
		})
	}
}

func TestChainIsRepeatable(t *testing.T) {
	chain := New().AddAssertion(false, "broken")
	assert.EqualError(t, chain.Validate(), "broken")
	assert.EqualError(t, chain.Validate(), "broken")
}

func TestNewAssertion(t *testing.T) {
	assert.NoError(t, NewAssertion(true, "never").Validate())
	assert.EqualError(t, NewAssertion(false, "the [threshold] must be a number").Validate(),
		"the [threshold] must be a number")
}
