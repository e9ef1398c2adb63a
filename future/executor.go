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

import "context"

// Executor runs a task, possibly asynchronously. An actor's executor runs
// the task as a job inside that actor.
type Executor interface {
	Execute(task func())
}

// ExecutorFunc adapts an ordinary function to the Executor interface.
type ExecutorFunc func(task func())

// Execute calls f(task).
func (f ExecutorFunc) Execute(task func()) {
	f(task)
}

type executorKey struct{}

// WithExecutor returns a copy of ctx that carries exec. Actors hand such
// contexts to the jobs they run.
func WithExecutor(ctx context.Context, exec Executor) context.Context {
	return context.WithValue(ctx, executorKey{}, exec)
}

// ExecutorFromContext returns the executor carried by ctx, or nil.
func ExecutorFromContext(ctx context.Context) Executor {
	if ctx == nil {
		return nil
	}
	exec, _ := ctx.Value(executorKey{}).(Executor)
	return exec
}

func dispatch(exec Executor, task func()) {
	if exec == nil {
		task()
		return
	}
	exec.Execute(task)
}
