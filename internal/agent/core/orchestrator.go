package core

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mohammad-safakhou/newsagent/config"
	"github.com/mohammad-safakhou/newsagent/internal/agent/telemetry"
)

var (
	// ErrRunInProgress is returned by TriggerRun while a run is active.
	ErrRunInProgress = errors.New("a run is already in progress")
	// ErrRunNotFound is returned for unknown run IDs.
	ErrRunNotFound = errors.New("run not found")
	// ErrRunNotFinished is returned when a result is requested before the
	// run reached a terminal state.
	ErrRunNotFinished = errors.New("run has not finished")
)

// Orchestrator coordinates the planner, the pipeline and the executor, and
// tracks run state for the HTTP and CLI drivers. A single orchestrator
// allows one run at a time; past runs remain queryable by ID.
type Orchestrator struct {
	cfg       *config.Config
	logger    *log.Logger
	telemetry *telemetry.Telemetry

	planner  *Planner
	pipeline *Pipeline
	executor *Executor

	mu       sync.RWMutex
	active   string // run ID currently executing, empty when idle
	lastRun  string // most recently started run, for ID-less queries
	statuses map[string]*RunStatus
	results  map[string]*RunResult
	cancels  map[string]*atomic.Bool
}

// NewOrchestrator wires an orchestrator from configuration. The telemetry
// handle may be nil, in which case no metrics are recorded.
func NewOrchestrator(cfg *config.Config, tel *telemetry.Telemetry) *Orchestrator {
	o := &Orchestrator{
		cfg:       cfg,
		logger:    log.New(log.Writer(), "[ORCHESTRATOR] ", log.LstdFlags),
		telemetry: tel,
		planner:   NewPlanner(),
		pipeline:  NewPipeline(cfg),
		statuses:  make(map[string]*RunStatus),
		results:   make(map[string]*RunResult),
		cancels:   make(map[string]*atomic.Bool),
	}
	o.executor = NewExecutor(o.pipeline.StepTable(),
		WithPause(cfg.Pipeline.StepPause),
		WithProgress(o.onProgress),
	)
	return o
}

// TriggerRun starts a run on a background goroutine and returns its ID, or
// ErrRunInProgress while another run is active.
func (o *Orchestrator) TriggerRun(query string) (string, error) {
	if query == "" {
		query = o.cfg.General.DefaultQuery
	}

	o.mu.Lock()
	if o.active != "" {
		o.mu.Unlock()
		return "", ErrRunInProgress
	}
	runID := uuid.New().String()
	o.active = runID
	o.lastRun = runID
	o.statuses[runID] = &RunStatus{
		RunID:       runID,
		State:       StateRunning,
		StartedAt:   time.Now(),
		LastUpdated: time.Now(),
	}
	o.cancels[runID] = &atomic.Bool{}
	o.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), o.cfg.General.MaxProcessingTime)
		defer cancel()
		o.execute(ctx, runID, query)
	}()

	return runID, nil
}

// RunOnce executes a run in the foreground and returns its result. It shares
// the single-run gate with TriggerRun.
func (o *Orchestrator) RunOnce(ctx context.Context, query string) (*RunResult, error) {
	if query == "" {
		query = o.cfg.General.DefaultQuery
	}

	o.mu.Lock()
	if o.active != "" {
		o.mu.Unlock()
		return nil, ErrRunInProgress
	}
	runID := uuid.New().String()
	o.active = runID
	o.lastRun = runID
	o.statuses[runID] = &RunStatus{
		RunID:       runID,
		State:       StateRunning,
		StartedAt:   time.Now(),
		LastUpdated: time.Now(),
	}
	o.cancels[runID] = &atomic.Bool{}
	o.mu.Unlock()

	return o.execute(ctx, runID, query), nil
}

// execute runs the full plan for one run and records its terminal state.
func (o *Orchestrator) execute(ctx context.Context, runID, query string) *RunResult {
	o.logger.Printf("run %s starting with query %q", runID, query)
	if o.telemetry != nil {
		o.telemetry.RunStarted()
	}
	started := time.Now()

	plan := o.planner.Plan(query)

	o.mu.Lock()
	if st := o.statuses[runID]; st != nil {
		st.TotalSteps = len(plan)
		st.LastUpdated = time.Now()
	}
	cancelled := o.cancels[runID]
	o.mu.Unlock()

	store := NewArticleStore()
	steps, aborted := o.executor.Execute(ctx, runID, plan, store, cancelled)

	result := &RunResult{
		RunID:             runID,
		Query:             query,
		Plan:              plan,
		Steps:             steps,
		ArticlesProcessed: store.Len(),
		Cancelled:         aborted && cancelled.Load(),
		StartedAt:         started,
		CompletedAt:       time.Now(),
	}

	state := StateCompleted
	errText := ""
	if aborted && !result.Cancelled {
		state = StateFailed
		if err := ctx.Err(); err != nil {
			errText = err.Error()
		}
	}

	o.mu.Lock()
	o.results[runID] = result
	if st := o.statuses[runID]; st != nil {
		st.State = state
		st.Error = errText
		if state == StateCompleted && !result.Cancelled {
			st.Progress = 1.0
			st.CompletedSteps = len(plan)
			st.CurrentStep = ""
		}
		st.LastUpdated = time.Now()
	}
	o.active = ""
	o.mu.Unlock()

	if o.telemetry != nil {
		o.telemetry.RunFinished(string(state), time.Since(started))
	}
	o.logger.Printf("run %s finished in %s (%s, %d articles)",
		runID, time.Since(started).Round(time.Millisecond), state, result.ArticlesProcessed)
	return result
}

// onProgress keeps the status snapshot current and feeds step telemetry.
func (o *Orchestrator) onProgress(ev ProgressEvent) {
	o.mu.Lock()
	if st := o.statuses[ev.RunID]; st != nil {
		st.CurrentStep = ev.Step
		st.TotalSteps = ev.Total
		if ev.Finished {
			st.CompletedSteps = ev.Index + 1
		}
		if ev.Total > 0 {
			st.Progress = float64(st.CompletedSteps) / float64(ev.Total)
		}
		st.LastUpdated = time.Now()
	}
	o.mu.Unlock()

	if ev.Finished && ev.Result != nil && o.telemetry != nil {
		o.telemetry.StepObserved(string(ev.Step), ev.Result.Success, ev.Result.Duration)
	}
}

// GetStatus reports the status of a run. An empty runID selects the most
// recently started run; before any run it reports the idle state.
func (o *Orchestrator) GetStatus(runID string) (RunStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if runID == "" {
		runID = o.lastRun
	}
	if runID == "" {
		return RunStatus{State: StateIdle}, nil
	}
	st, ok := o.statuses[runID]
	if !ok {
		return RunStatus{}, ErrRunNotFound
	}
	return *st, nil
}

// Result returns the run result once the run is terminal. The result is
// partial when the run was cancelled mid-plan.
func (o *Orchestrator) Result(runID string) (*RunResult, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if runID == "" {
		runID = o.lastRun
	}
	if runID == "" {
		return nil, ErrRunNotFound
	}
	if _, ok := o.statuses[runID]; !ok {
		return nil, ErrRunNotFound
	}
	result, ok := o.results[runID]
	if !ok {
		return nil, ErrRunNotFinished
	}
	return result, nil
}

// Cancel requests cooperative cancellation of a run. The executor stops
// before the next step; the step in flight is allowed to finish.
func (o *Orchestrator) Cancel(runID string) error {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if runID == "" {
		runID = o.active
	}
	if runID == "" {
		return ErrRunNotFound
	}
	flag, ok := o.cancels[runID]
	if !ok {
		return ErrRunNotFound
	}
	flag.Store(true)
	o.logger.Printf("run %s cancellation requested", runID)
	return nil
}
