// ABOUTME: Cooperative single-threaded block runner
// ABOUTME: Computes WorkInfo, paces idle blocks, tracks statistics
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultPace is how long an idle block sleeps between Work calls.
const DefaultPace = time.Millisecond

// RunnerStats counts what a runner has done so far.
type RunnerStats struct {
	Invocations uint64
	Yields      uint64
}

// Runner drives one worker's Activate/Work/Deactivate lifecycle on the
// calling goroutine. Work is re-invoked immediately while the worker
// makes progress and paced by a short sleep while it does not.
type Runner struct {
	worker Worker
	logger *slog.Logger
	pace   time.Duration
	stats  RunnerStats
}

// NewRunner creates a runner for the given worker. A nil logger falls
// back to slog.Default.
func NewRunner(worker Worker, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{worker: worker, logger: logger, pace: DefaultPace}
}

// SetPace overrides the idle sleep interval.
func (r *Runner) SetPace(d time.Duration) {
	if d > 0 {
		r.pace = d
	}
}

// Stats returns a snapshot of the runner's counters.
func (r *Runner) Stats() RunnerStats { return r.stats }

// Run activates the worker and loops until ctx is done, then
// deactivates it. Activation errors abort the run.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.worker.Activate(); err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	defer func() {
		if err := r.worker.Deactivate(); err != nil {
			r.logger.Error("block deactivate failed", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		info := r.workInfo()
		before := r.progress()
		r.worker.Work(&info)
		r.stats.Invocations++

		if r.progress() == before {
			r.stats.Yields++
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(r.pace):
			}
		}
	}
}

func (r *Runner) workInfo() WorkInfo {
	info := WorkInfo{MaxTimeout: r.pace}
	for i, p := range r.worker.InputPorts() {
		if n := p.Elements(); i == 0 || n < info.MinInElements {
			info.MinInElements = n
		}
	}
	for i, p := range r.worker.OutputPorts() {
		if n := p.Free(); i == 0 || n < info.MinOutElements {
			info.MinOutElements = n
		}
	}
	return info
}

func (r *Runner) progress() uint64 {
	var total uint64
	for _, p := range r.worker.InputPorts() {
		total += p.TotalConsumed()
	}
	for _, p := range r.worker.OutputPorts() {
		total += p.TotalProduced()
	}
	return total
}
