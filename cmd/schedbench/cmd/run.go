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

package cmd

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/atomic"

	"github.com/tochemey/goflow/actor"
	"github.com/tochemey/goflow/config"
	"github.com/tochemey/goflow/log"
)

type runFlags struct {
	configPath string
	actors     int
	skew       float64
	baseCost   int
	duration   time.Duration
	report     time.Duration
}

var flags runFlags

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Schedule skewed actors and report the runner loads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, flags)
	},
}

func init() {
	runCmd.Flags().StringVar(&flags.configPath, "config", "", "path of a YAML scheduler configuration")
	runCmd.Flags().IntVar(&flags.actors, "actors", 64, "number of actors to schedule")
	runCmd.Flags().Float64Var(&flags.skew, "skew", 1.5, "exponent applied to the actor index to derive its cost")
	runCmd.Flags().IntVar(&flags.baseCost, "base-cost", 100, "hash rounds of the cheapest actor per DoWork call")
	runCmd.Flags().DurationVar(&flags.duration, "duration", 10*time.Second, "how long to run, zero runs until interrupted")
	runCmd.Flags().DurationVar(&flags.report, "report", time.Second, "interval between two load reports")
	rootCmd.AddCommand(runCmd)
}

func run(ctx context.Context, flags runFlags) error {
	logger := log.NewZap(log.InfoLevel, os.Stdout)
	opts := []actor.Option{actor.WithLogger(logger)}
	if flags.configPath != "" {
		cfg, err := config.Load(flags.configPath)
		if err != nil {
			return err
		}

		fileOpts, err := cfg.Options()
		if err != nil {
			return err
		}
		opts = append(opts, fileOpts...)
	}

	scheduler, err := actor.NewDynamicScheduler(opts...)
	if err != nil {
		return err
	}

	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Close()

	workers := make([]*hashActor, flags.actors)
	for index := range workers {
		cost := flags.baseCost * int(math.Ceil(math.Pow(float64(index+1), flags.skew)))
		workers[index] = newHashActor(fmt.Sprintf("hasher-%d", index), cost)
		if _, err := scheduler.Schedule(workers[index]); err != nil {
			return err
		}
	}

	if flags.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.duration)
		defer cancel()
	}

	ticker := time.NewTicker(flags.report)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			var calls int64
			for _, worker := range workers {
				calls += worker.calls.Load()
			}
			logger.Infof("stopping after %d DoWork calls", calls)
			return nil
		case <-ticker.C:
			for _, stats := range scheduler.Stats() {
				logger.Infof("runner=%d actors=%d load=%s", stats.Runner(), stats.ActorsCount(), stats.Duration())
			}
		}
	}
}

// hashActor burns a fixed number of hash rounds per DoWork call
type hashActor struct {
	name  string
	cost  int
	seed  uint64
	calls *atomic.Int64
}

var _ actor.Actor = (*hashActor)(nil)

func newHashActor(name string, cost int) *hashActor {
	return &hashActor{name: name, cost: cost, calls: atomic.NewInt64(0)}
}

func (x *hashActor) Name() string {
	return x.name
}

func (x *hashActor) Priority(time.Time) int {
	return actor.PriorityLow
}

func (x *hashActor) DoWork(context.Context) (int, error) {
	hasher := fnv.New64a()
	buffer := make([]byte, 8)
	for range x.cost {
		for i := range buffer {
			buffer[i] = byte(x.seed >> (8 * i))
		}
		_, _ = hasher.Write(buffer)
		x.seed = hasher.Sum64()
	}
	x.calls.Inc()
	return 1, nil
}
