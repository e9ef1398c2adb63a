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

import "context"

// Phase is a lifecycle phase of a Control
type Phase int32

const (
	// PhaseStarting runs OnStarting and the callbacks blocking the phase
	PhaseStarting Phase = iota
	// PhaseStarted runs ordinary jobs
	PhaseStarted
	// PhaseClosing runs the jobs queued before close then OnClosing's blocking callbacks
	PhaseClosing
	// PhaseClosed is terminal
	PhaseClosed
	// PhaseFailed is terminal, reached when a job or a hook fails
	PhaseFailed
)

// String implements fmt.Stringer
func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseStarted:
		return "started"
	case PhaseClosing:
		return "closing"
	case PhaseClosed:
		return "closed"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (p Phase) terminal() bool {
	return p == PhaseClosed || p == PhaseFailed
}

// Behavior holds the lifecycle hooks of a Control. Hooks run inside the
// actor; returning an error, or panicking, fails the actor.
type Behavior interface {
	// OnStarting is called first, before any ordinary job
	OnStarting(ctx context.Context, ctl *Control) error
	// OnStarted is called once the starting phase has no blocking callbacks left
	OnStarted(ctx context.Context, ctl *Control) error
	// OnClosing is called when the actor starts closing
	OnClosing(ctx context.Context, ctl *Control) error
	// OnClosed is called once the closing phase has no blocking callbacks left
	OnClosed(ctx context.Context, ctl *Control) error
	// OnFailure is called when the actor fails
	OnFailure(ctx context.Context, ctl *Control, err error)
}

// BaseBehavior implements every hook as a no-op. Embed it to only
// override the hooks you need.
type BaseBehavior struct{}

var _ Behavior = BaseBehavior{}

// OnStarting implements Behavior
func (BaseBehavior) OnStarting(context.Context, *Control) error { return nil }

// OnStarted implements Behavior
func (BaseBehavior) OnStarted(context.Context, *Control) error { return nil }

// OnClosing implements Behavior
func (BaseBehavior) OnClosing(context.Context, *Control) error { return nil }

// OnClosed implements Behavior
func (BaseBehavior) OnClosed(context.Context, *Control) error { return nil }

// OnFailure implements Behavior
func (BaseBehavior) OnFailure(context.Context, *Control, error) {}

// StartedFunc is a Behavior whose only hook is OnStarted
type StartedFunc func(ctx context.Context, ctl *Control) error

var _ Behavior = StartedFunc(nil)

// OnStarting implements Behavior
func (StartedFunc) OnStarting(context.Context, *Control) error { return nil }

// OnStarted implements Behavior
func (f StartedFunc) OnStarted(ctx context.Context, ctl *Control) error { return f(ctx, ctl) }

// OnClosing implements Behavior
func (StartedFunc) OnClosing(context.Context, *Control) error { return nil }

// OnClosed implements Behavior
func (StartedFunc) OnClosed(context.Context, *Control) error { return nil }

// OnFailure implements Behavior
func (StartedFunc) OnFailure(context.Context, *Control, error) {}
