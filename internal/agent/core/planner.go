package core

import (
	"log"
	"strings"
)

var (
	newsKeywords = []string{"news", "articles", "headlines"}
	techKeywords = []string{"tech", "technology", "ai"}
)

// canonicalPlan is the full six-step sequence emitted for news queries.
var canonicalPlan = ExecutionPlan{
	StepFetchFeeds,
	StepExtractContent,
	StepAnalyzeQuality,
	StepSummarize,
	StepRank,
	StepReport,
}

// fallbackPlan is the minimal plan used when no keyword matches.
var fallbackPlan = ExecutionPlan{
	StepFetchFeeds,
	StepSummarize,
	StepReport,
}

// Planner maps a free-text query to an ordered list of pipeline steps using
// fixed keyword sets. Planning never fails; the worst case is the fallback
// plan.
type Planner struct {
	logger *log.Logger
}

// NewPlanner creates a new planner instance.
func NewPlanner() *Planner {
	return &Planner{logger: log.New(log.Writer(), "[PLANNER] ", log.LstdFlags)}
}

// Plan builds the execution plan for a query. News-style queries get the
// canonical six steps; tech-style queries additionally get the topic filter
// appended after them. Note the filter lands after report generation, so a
// tech plan's report covers the pre-filter article set.
func (p *Planner) Plan(query string) ExecutionPlan {
	q := strings.ToLower(query)

	var plan ExecutionPlan
	if containsAny(q, newsKeywords) {
		plan = append(plan, canonicalPlan...)
	}
	if containsAny(q, techKeywords) {
		plan = append(plan, StepFilterTech)
	}
	if len(plan) == 0 {
		plan = append(plan, fallbackPlan...)
	}

	p.logger.Printf("planned %d steps for query %q: %v", len(plan), query, plan)
	return plan
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
