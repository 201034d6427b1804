package core

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
)

func silentExecutor(table map[Step]StepFunc, opts ...ExecutorOption) *Executor {
	e := NewExecutor(table, opts...)
	e.logger = log.New(io.Discard, "", 0)
	return e
}

func okStep(calls *[]Step, step Step) StepFunc {
	return func(ctx context.Context, store *ArticleStore) (StepResult, error) {
		*calls = append(*calls, step)
		return StepResult{Data: map[string]interface{}{"ok": true}}, nil
	}
}

func TestExecuteContinuesPastFailingStep(t *testing.T) {
	var calls []Step
	table := map[Step]StepFunc{
		StepFetchFeeds: okStep(&calls, StepFetchFeeds),
		StepSummarize: func(ctx context.Context, store *ArticleStore) (StepResult, error) {
			calls = append(calls, StepSummarize)
			return StepResult{}, errors.New("feed exploded")
		},
		StepRank:   okStep(&calls, StepRank),
		StepReport: okStep(&calls, StepReport),
	}
	e := silentExecutor(table)

	plan := ExecutionPlan{StepFetchFeeds, StepSummarize, StepRank, StepReport}
	results, aborted := e.Execute(context.Background(), "r1", plan, NewArticleStore(), nil)

	if aborted {
		t.Fatalf("expected run to complete")
	}
	if len(calls) != 4 {
		t.Fatalf("expected all 4 steps attempted, got %v", calls)
	}
	if results[StepSummarize].Success {
		t.Fatalf("expected summarize marked failed")
	}
	if results[StepSummarize].Error != "feed exploded" {
		t.Fatalf("unexpected error text %q", results[StepSummarize].Error)
	}
	if !results[StepFetchFeeds].Success || !results[StepRank].Success || !results[StepReport].Success {
		t.Fatalf("expected surrounding steps to succeed: %+v", results)
	}
}

func TestExecuteSkipsUnknownStep(t *testing.T) {
	var calls []Step
	table := map[Step]StepFunc{
		StepFetchFeeds: okStep(&calls, StepFetchFeeds),
		StepReport:     okStep(&calls, StepReport),
	}
	e := silentExecutor(table)

	plan := ExecutionPlan{StepFetchFeeds, Step("mystery_step"), StepReport}
	results, aborted := e.Execute(context.Background(), "r1", plan, NewArticleStore(), nil)

	if aborted {
		t.Fatalf("expected run to complete")
	}
	if _, ok := results[Step("mystery_step")]; ok {
		t.Fatalf("unknown step must not produce a result")
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 steps executed, got %v", calls)
	}
}

func TestExecuteRecoversFromPanic(t *testing.T) {
	table := map[Step]StepFunc{
		StepRank: func(ctx context.Context, store *ArticleStore) (StepResult, error) {
			panic("index out of range")
		},
		StepReport: func(ctx context.Context, store *ArticleStore) (StepResult, error) {
			return StepResult{}, nil
		},
	}
	e := silentExecutor(table)

	results, aborted := e.Execute(context.Background(), "r1",
		ExecutionPlan{StepRank, StepReport}, NewArticleStore(), nil)

	if aborted {
		t.Fatalf("expected run to complete despite panic")
	}
	res := results[StepRank]
	if res.Success {
		t.Fatalf("expected panicking step marked failed")
	}
	if res.Error == "" {
		t.Fatalf("expected panic captured in error text")
	}
	if !results[StepReport].Success {
		t.Fatalf("expected following step to run")
	}
}

func TestExecuteStopsAtCancellationFlag(t *testing.T) {
	var cancelled atomic.Bool
	var calls []Step

	step := func(name Step) StepFunc {
		return func(ctx context.Context, store *ArticleStore) (StepResult, error) {
			calls = append(calls, name)
			if len(calls) == 2 {
				cancelled.Store(true)
			}
			return StepResult{}, nil
		}
	}
	table := map[Step]StepFunc{
		StepFetchFeeds:     step(StepFetchFeeds),
		StepExtractContent: step(StepExtractContent),
		StepAnalyzeQuality: step(StepAnalyzeQuality),
		StepSummarize:      step(StepSummarize),
		StepReport:         step(StepReport),
	}
	e := silentExecutor(table)

	plan := ExecutionPlan{StepFetchFeeds, StepExtractContent, StepAnalyzeQuality, StepSummarize, StepReport}
	results, aborted := e.Execute(context.Background(), "r1", plan, NewArticleStore(), &cancelled)

	if !aborted {
		t.Fatalf("expected run reported as aborted")
	}
	if len(calls) != 2 {
		t.Fatalf("expected exactly 2 steps before cancellation, got %v", calls)
	}
	if len(results) != 2 {
		t.Fatalf("expected partial results for 2 steps, got %d", len(results))
	}
	if !results[StepFetchFeeds].Success || !results[StepExtractContent].Success {
		t.Fatalf("completed steps should keep their results: %+v", results)
	}
}

func TestExecuteEmitsProgressEvents(t *testing.T) {
	var events []ProgressEvent
	table := map[Step]StepFunc{
		StepFetchFeeds: func(ctx context.Context, store *ArticleStore) (StepResult, error) {
			return StepResult{}, nil
		},
		StepReport: func(ctx context.Context, store *ArticleStore) (StepResult, error) {
			return StepResult{}, errors.New("boom")
		},
	}
	e := silentExecutor(table, WithProgress(func(ev ProgressEvent) {
		events = append(events, ev)
	}))

	e.Execute(context.Background(), "r9",
		ExecutionPlan{StepFetchFeeds, StepReport}, NewArticleStore(), nil)

	if len(events) != 4 {
		t.Fatalf("expected start+finish per step, got %d events", len(events))
	}
	if events[0].Finished || !events[1].Finished {
		t.Fatalf("expected start then finish ordering")
	}
	if events[1].Result == nil || !events[1].Result.Success {
		t.Fatalf("expected success result on first finish event")
	}
	last := events[3]
	if !last.Finished || last.Result == nil || last.Result.Success {
		t.Fatalf("expected failure result on last finish event: %+v", last)
	}
	if last.RunID != "r9" || last.Index != 1 || last.Total != 2 {
		t.Fatalf("unexpected event metadata: %+v", last)
	}
}
