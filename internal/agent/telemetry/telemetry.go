package telemetry

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/newsagent/config"
)

// Telemetry records run and step metrics on a private prometheus registry.
// A disabled instance keeps the same API but drops every observation.
type Telemetry struct {
	enabled  bool
	logger   *log.Logger
	registry *prometheus.Registry

	runsStarted  prometheus.Counter
	runsFinished *prometheus.CounterVec
	runDuration  prometheus.Histogram

	stepExecutions *prometheus.CounterVec
	stepDuration   *prometheus.HistogramVec
}

// New builds a telemetry instance from configuration.
func New(cfg config.TelemetryConfig) *Telemetry {
	t := &Telemetry{
		enabled:  cfg.Enabled,
		logger:   log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		registry: prometheus.NewRegistry(),
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "newsagent",
			Name:      "runs_started_total",
			Help:      "Number of pipeline runs started.",
		}),
		runsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsagent",
			Name:      "runs_finished_total",
			Help:      "Number of pipeline runs finished, by terminal state.",
		}, []string{"state"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "newsagent",
			Name:      "run_duration_seconds",
			Help:      "Wall time of complete pipeline runs.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		stepExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsagent",
			Name:      "step_executions_total",
			Help:      "Number of step executions, by step and outcome.",
		}, []string{"step", "outcome"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "newsagent",
			Name:      "step_duration_seconds",
			Help:      "Wall time of individual steps, by step.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"step"}),
	}

	t.registry.MustRegister(
		t.runsStarted, t.runsFinished, t.runDuration,
		t.stepExecutions, t.stepDuration,
	)
	return t
}

// RunStarted counts the start of a run.
func (t *Telemetry) RunStarted() {
	if t == nil || !t.enabled {
		return
	}
	t.runsStarted.Inc()
}

// RunFinished counts a terminal run and observes its duration.
func (t *Telemetry) RunFinished(state string, elapsed time.Duration) {
	if t == nil || !t.enabled {
		return
	}
	t.runsFinished.WithLabelValues(state).Inc()
	t.runDuration.Observe(elapsed.Seconds())
	t.logger.Printf("run finished state=%s elapsed=%s", state, elapsed.Round(time.Millisecond))
}

// StepObserved counts one step execution and observes its duration.
func (t *Telemetry) StepObserved(step string, success bool, elapsed time.Duration) {
	if t == nil || !t.enabled {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	t.stepExecutions.WithLabelValues(step, outcome).Inc()
	t.stepDuration.WithLabelValues(step).Observe(elapsed.Seconds())
}

// Handler serves the registry in the prometheus exposition format.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
