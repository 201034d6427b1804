package core

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// Executor runs an execution plan sequentially against a shared store. Steps
// never run in parallel: each one reads state left by the previous one. A
// failing step is recorded and the run continues with the next step.
type Executor struct {
	table    map[Step]StepFunc
	pause    time.Duration
	progress ProgressFunc
	logger   *log.Logger
}

// ExecutorOption configures executor behaviour.
type ExecutorOption func(*Executor)

// WithPause inserts a fixed pause after each step. Zero disables pacing.
func WithPause(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.pause = d }
}

// WithProgress registers an observer for step-boundary events.
func WithProgress(fn ProgressFunc) ExecutorOption {
	return func(e *Executor) { e.progress = fn }
}

// NewExecutor creates an executor over the given step dispatch table.
func NewExecutor(table map[Step]StepFunc, opts ...ExecutorOption) *Executor {
	e := &Executor{
		table:  table,
		logger: log.New(log.Writer(), "[EXECUTOR] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute walks the plan in order, accumulating one StepResult per attempted
// step. The cancelled flag is checked before each step only; once set, no
// further steps are scheduled and the results gathered so far are returned.
// A nil cancelled flag means the run is not cancellable.
func (e *Executor) Execute(ctx context.Context, runID string, plan ExecutionPlan, store *ArticleStore, cancelled *atomic.Bool) (map[Step]StepResult, bool) {
	results := make(map[Step]StepResult, len(plan))
	total := len(plan)

	for i, step := range plan {
		if cancelled != nil && cancelled.Load() {
			e.logger.Printf("run %s cancelled before step %s", runID, step)
			return results, true
		}
		if ctx.Err() != nil {
			e.logger.Printf("run %s context done before step %s: %v", runID, step, ctx.Err())
			return results, true
		}

		fn, ok := e.table[step]
		if !ok {
			e.logger.Printf("run %s: no handler for step %s, skipping", runID, step)
			continue
		}

		e.emit(ProgressEvent{RunID: runID, Step: step, Index: i, Total: total})
		e.logger.Printf("run %s executing step %s (%d/%d)", runID, step, i+1, total)

		start := time.Now()
		res, err := e.runStep(ctx, fn, store)
		res.Step = step
		res.Duration = time.Since(start)
		if err != nil {
			res.Success = false
			res.Error = err.Error()
			e.logger.Printf("run %s step %s failed: %v", runID, step, err)
		} else {
			res.Success = true
		}
		results[step] = res

		e.emit(ProgressEvent{RunID: runID, Step: step, Index: i, Total: total, Finished: true, Result: &res})

		if e.pause > 0 && i < total-1 {
			select {
			case <-time.After(e.pause):
			case <-ctx.Done():
			}
		}
	}

	return results, false
}

// runStep invokes a step function, converting panics into ordinary step
// failures so one bad step can never abort the whole run.
func (e *Executor) runStep(ctx context.Context, fn StepFunc, store *ArticleStore) (res StepResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step panicked: %v", r)
		}
	}()
	return fn(ctx, store)
}

func (e *Executor) emit(ev ProgressEvent) {
	if e.progress != nil {
		e.progress(ev)
	}
}
