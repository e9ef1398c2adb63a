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

package errorschain

import "go.uber.org/multierr"

// Chain collects errors, or steps producing errors, and reports them as one error.
// Steps are evaluated lazily, in insertion order, when Error is called.
type Chain struct {
	returnFirst bool
	steps       []func() error
}

// ChainOption configures an error chain at creation time.
type ChainOption func(*Chain)

// New creates a new error chain.
func New(opts ...ChainOption) *Chain {
	chain := &Chain{
		steps: make([]func() error, 0),
	}

	for _, opt := range opts {
		opt(chain)
	}

	return chain
}

// AddError adds an error to the chain
func (c *Chain) AddError(err error) *Chain {
	c.steps = append(c.steps, func() error { return err })
	return c
}

// AddErrors adds a slice of errors to the chain. The slice order does matter here
func (c *Chain) AddErrors(errs ...error) *Chain {
	for _, err := range errs {
		c.AddError(err)
	}
	return c
}

// AddErrorFn adds a step whose error is only computed when the chain is evaluated.
// With ReturnFirst the steps following a failing one are never called.
func (c *Chain) AddErrorFn(fn func() error) *Chain {
	c.steps = append(c.steps, fn)
	return c
}

// Error evaluates the chain and returns the resulting error, or nil.
func (c *Chain) Error() error {
	var err error
	for _, step := range c.steps {
		if stepErr := step(); stepErr != nil {
			if c.returnFirst {
				return stepErr
			}
			err = multierr.Append(err, stepErr)
		}
	}
	return err
}

// ReturnFirst makes the chain stop on the first error.
func ReturnFirst() ChainOption {
	return func(c *Chain) { c.returnFirst = true }
}

// ReturnAll makes the chain evaluate every step and combine all errors.
func ReturnAll() ChainOption {
	return func(c *Chain) { c.returnFirst = false }
}
