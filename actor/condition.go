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

// Condition is a named handle re-invoking an action inside its actor.
// Every Signal leads to exactly one invocation; signals are never coalesced.
type Condition struct {
	name   string
	ctl    *Control
	action Job
}

// OnCondition registers action against the actor and returns the handle
// used to trigger it
func (c *Control) OnCondition(name string, action Job) *Condition {
	return &Condition{name: name, ctl: c, action: action}
}

// Name returns the condition name
func (x *Condition) Name() string {
	return x.name
}

// Signal queues one invocation of the action. It can be called from any
// goroutine. Signals sent to a closed actor are dropped.
func (x *Condition) Signal() {
	x.ctl.enqueue(&job{fn: x.action})
}
