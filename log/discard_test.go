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

package log

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger
	logger.Debug("debug")
	logger.Debugf("debug %d", 1)
	logger.Info("info")
	logger.Infof("info %d", 1)
	logger.Warn("warn")
	logger.Warnf("warn %d", 1)
	logger.Error("error")
	logger.Errorf("error %d", 1)

	assert.Equal(t, InfoLevel, logger.LogLevel())
	assert.False(t, logger.Enabled(DebugLevel))
	assert.False(t, logger.Enabled(PanicLevel))
	assert.Equal(t, []io.Writer{io.Discard}, logger.LogOutput())
	assert.Equal(t, DiscardLogger, logger.With("actor", "timer"))
	require.NoError(t, logger.Flush())
}
