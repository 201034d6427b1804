package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/newsagent/config"
)

func testConfig() *config.Config {
	return &config.Config{
		General: config.GeneralConfig{
			MaxProcessingTime: 5 * time.Second,
			DefaultQuery:      "Get me the latest news and summarize it",
		},
		Sources:   config.SourcesConfig{MaxPerSource: 5},
		Pipeline:  config.PipelineConfig{Profile: config.ProfileDesktop},
		Telemetry: config.TelemetryConfig{Enabled: true},
	}
}

func TestHealthz(t *testing.T) {
	e := New(testConfig())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := New(testConfig())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStatusIdleBeforeAnyRun(t *testing.T) {
	e := New(testConfig())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/agent/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var status map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status["status"] != "idle" {
		t.Fatalf("expected idle status, got %v", status["status"])
	}
}

func TestRunLifecycle(t *testing.T) {
	e := New(testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/agent/run",
		strings.NewReader(`{"query":"latest news"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	runID := accepted["run_id"]
	if runID == "" {
		t.Fatalf("expected run_id in response")
	}

	// No sources configured, so the background run finishes quickly.
	deadline := time.Now().Add(5 * time.Second)
	for {
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/agent/result?run_id="+runID, nil))
		if rec.Code == http.StatusOK {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("result never became available, last status %d", rec.Code)
		}
		time.Sleep(10 * time.Millisecond)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result["run_id"] != runID {
		t.Fatalf("result run_id mismatch: %v", result["run_id"])
	}
	if result["query"] != "latest news" {
		t.Fatalf("unexpected query %v", result["query"])
	}
	plan, ok := result["plan"].([]interface{})
	if !ok || len(plan) != 6 {
		t.Fatalf("expected six-step plan, got %v", result["plan"])
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/agent/status?run_id="+runID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 status, got %d", rec.Code)
	}
	var status map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status["status"] != "completed" {
		t.Fatalf("expected completed, got %v", status["status"])
	}
}

func TestRunRejectsInvalidBody(t *testing.T) {
	e := New(testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/agent/run", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestResultUnknownRun(t *testing.T) {
	e := New(testConfig())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/agent/result?run_id=missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == nil {
		t.Fatalf("expected structured error body, got %s", rec.Body.String())
	}
}

func TestCancelWithoutActiveRun(t *testing.T) {
	e := New(testConfig())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/agent/cancel", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
