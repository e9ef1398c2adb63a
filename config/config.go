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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tochemey/goflow/actor"
	gerrors "github.com/tochemey/goflow/errors"
	"github.com/tochemey/goflow/internal/validation"
	"github.com/tochemey/goflow/log"
)

// ErrInvalidLogLevel is returned when the configured log level is unknown
var ErrInvalidLogLevel = errors.New("invalid log level")

// IdleConfig describes the backoff idle strategy of the runners
type IdleConfig struct {
	MaxSpins  int           `yaml:"max_spins"`
	MaxYields int           `yaml:"max_yields"`
	MinPark   time.Duration `yaml:"min_park"`
	MaxPark   time.Duration `yaml:"max_park"`
}

// Validate checks the idle strategy settings
func (c IdleConfig) Validate() error {
	return validation.New(validation.AllErrors()).
		AddValidator(validation.NewMinValidator("idle.max_spins", c.MaxSpins, 0)).
		AddValidator(validation.NewMinValidator("idle.max_yields", c.MaxYields, 0)).
		AddValidator(validation.NewMinValidator("idle.min_park", c.MinPark, time.Nanosecond)).
		AddValidator(validation.NewMinValidator("idle.max_park", c.MaxPark, c.MinPark)).
		Validate()
}

// Config models a scheduler configuration file. Keys left out keep the
// scheduler defaults.
type Config struct {
	Threads                int           `yaml:"threads"`
	BaseIterationsPerActor int           `yaml:"base_iterations_per_actor"`
	ImbalanceThreshold     *float64      `yaml:"imbalance_threshold"`
	InitialBackoff         time.Duration `yaml:"initial_backoff"`
	MaxBackoff             time.Duration `yaml:"max_backoff"`
	DurationSamplePeriod   time.Duration `yaml:"duration_sample_period"`
	DurationSampleCount    int           `yaml:"duration_sample_count"`
	QueueCapacity          int           `yaml:"queue_capacity"`
	ShutdownTimeout        time.Duration `yaml:"shutdown_timeout"`
	LockOSThread           *bool         `yaml:"lock_os_thread"`
	LogLevel               string        `yaml:"log_level"`
	Idle                   *IdleConfig   `yaml:"idle"`
}

// Load reads and parses the configuration file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return config, nil
}

// Parse decodes a YAML configuration document. Unknown keys are rejected.
// An empty document yields an empty Config.
func Parse(data []byte) (*Config, error) {
	config := new(Config)
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return config, nil
}

// Options converts the configuration into scheduler options. Only the keys
// present in the document produce an option; the scheduler still validates
// the resulting values.
func (c *Config) Options() ([]actor.Option, error) {
	var opts []actor.Option
	if c.Threads != 0 {
		opts = append(opts, actor.WithThreadCount(c.Threads))
	}

	if c.BaseIterationsPerActor != 0 {
		opts = append(opts, actor.WithBaseIterationsPerActor(c.BaseIterationsPerActor))
	}

	if c.ImbalanceThreshold != nil {
		opts = append(opts, actor.WithImbalanceThreshold(*c.ImbalanceThreshold))
	}

	if c.InitialBackoff != 0 {
		opts = append(opts, actor.WithSchedulerInitialBackoff(c.InitialBackoff))
	}

	if c.MaxBackoff != 0 {
		opts = append(opts, actor.WithSchedulerMaxBackoff(c.MaxBackoff))
	}

	if c.DurationSamplePeriod != 0 {
		opts = append(opts, actor.WithDurationSamplePeriod(c.DurationSamplePeriod))
	}

	if c.DurationSampleCount != 0 {
		opts = append(opts, actor.WithDurationSampleCount(c.DurationSampleCount))
	}

	if c.QueueCapacity != 0 {
		opts = append(opts, actor.WithRunnerQueueCapacity(c.QueueCapacity))
	}

	if c.ShutdownTimeout != 0 {
		opts = append(opts, actor.WithShutdownTimeout(c.ShutdownTimeout))
	}

	if c.LockOSThread != nil {
		opts = append(opts, actor.WithLockOSThread(*c.LockOSThread))
	}

	if c.Idle != nil {
		idle := *c.Idle
		if err := idle.Validate(); err != nil {
			return nil, gerrors.NewErrInvalidConfig(err)
		}

		opts = append(opts, actor.WithRunnerIdleStrategy(func() actor.IdleStrategy {
			return actor.NewBackoffIdleStrategy(idle.MaxSpins, idle.MaxYields, idle.MinPark, idle.MaxPark)
		}))
	}

	if c.LogLevel != "" {
		level, err := log.ParseLevel(c.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
		}
		opts = append(opts, actor.WithLogger(log.NewZap(level, os.Stdout)))
	}

	return opts, nil
}
