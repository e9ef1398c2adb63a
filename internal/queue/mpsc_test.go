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

package queue

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMpsc(t *testing.T) {
	t.Run("With Push/Pop", func(t *testing.T) {
		q := NewMpsc[int]()
		require.True(t, q.IsEmpty())
		for j := 0; j < 100; j++ {
			require.Zero(t, q.Len())
			_, ok := q.Pop()
			require.False(t, ok)

			for i := 0; i < j; i++ {
				q.Push(i)
			}

			for i := 0; i < j; i++ {
				x, ok := q.Pop()
				require.True(t, ok)
				require.Equal(t, i, x)
			}
		}

		a, r := 0, 0
		for j := 0; j < 100; j++ {
			for i := 0; i < 4; i++ {
				q.Push(a)
				a++
			}

			for i := 0; i < 2; i++ {
				x, ok := q.Pop()
				require.True(t, ok)
				require.Equal(t, r, x)
				r++
			}
		}

		assert.EqualValues(t, 200, q.Len())
		assert.False(t, q.IsEmpty())
	})
	t.Run("With Drain", func(t *testing.T) {
		q := NewMpsc[string]()
		q.Push("a")
		q.Push("b")

		var got []string
		require.Equal(t, 2, q.Drain(func(s string) { got = append(got, s) }))
		assert.Equal(t, []string{"a", "b"}, got)
		assert.True(t, q.IsEmpty())
		assert.Zero(t, q.Drain(func(string) { t.Fatal("unexpected value") }))
	})
	t.Run("With concurrent producers", func(t *testing.T) {
		const producers = 8
		const perProducer = 1000
		q := NewMpsc[int]()

		var wg sync.WaitGroup
		for p := 0; p < producers; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					q.Push(p*perProducer + i)
				}
			}(p)
		}

		// each producer's values must come out in its own push order
		last := make([]int, producers)
		for i := range last {
			last[i] = -1
		}
		received := 0
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		for received < producers*perProducer {
			value, ok := q.Pop()
			if !ok {
				runtime.Gosched()
				continue
			}
			p, i := value/perProducer, value%perProducer
			require.Greater(t, i, last[p])
			last[p] = i
			received++
		}
		<-done
		assert.True(t, q.IsEmpty())
	})
}
