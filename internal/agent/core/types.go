package core

import (
	"context"
	"time"
)

// Step identifies one named unit of the processing pipeline.
type Step string

const (
	StepFetchFeeds     Step = "fetch_news_feeds"
	StepExtractContent Step = "extract_article_content"
	StepAnalyzeQuality Step = "analyze_content_quality"
	StepSummarize      Step = "summarize_articles"
	StepRank           Step = "rank_by_relevance"
	StepReport         Step = "generate_summary_report"
	StepFilterTech     Step = "filter_tech_content"
)

// Steps returns the complete step catalogue.
func Steps() []Step {
	return []Step{
		StepFetchFeeds,
		StepExtractContent,
		StepAnalyzeQuality,
		StepSummarize,
		StepRank,
		StepReport,
		StepFilterTech,
	}
}

// Article is one news item flowing through the pipeline. Fields past the raw
// feed ones are populated progressively by the steps that compute them.
type Article struct {
	Title            string  `json:"title"`
	Link             string  `json:"link"`
	Published        string  `json:"published"` // opaque feed string, never parsed
	Summary          string  `json:"summary"`   // feed-provided short text
	Source           string  `json:"source"`    // originating feed URL
	Content          string  `json:"content"`
	WordCount        int     `json:"word_count"`
	ReadabilityScore float64 `json:"readability_score"`
	QualityScore     int     `json:"quality_score"`
	AISummary        string  `json:"ai_summary,omitempty"`
	RelevanceScore   int     `json:"relevance_score"`
}

// SetContent stores extracted text capped at maxChars, deriving the word
// count from the full text before the cap. The two fields are only ever
// updated together.
func (a *Article) SetContent(text string, maxChars int) {
	a.WordCount = countWords(text)
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	a.Content = text
}

// ArticleStore is the ordered, mutable collection of articles for one run.
// It is owned by exactly one run and never shared across runs.
type ArticleStore struct {
	articles []*Article
}

// NewArticleStore returns an empty store.
func NewArticleStore() *ArticleStore {
	return &ArticleStore{}
}

// Articles exposes the backing slice; steps mutate articles in place.
func (s *ArticleStore) Articles() []*Article { return s.articles }

// Len reports the number of articles currently held.
func (s *ArticleStore) Len() int { return len(s.articles) }

// Replace swaps the store contents wholesale. Fetching and filtering steps
// use this; they never append to prior contents.
func (s *ArticleStore) Replace(articles []*Article) {
	s.articles = articles
}

// SortStable reorders the store with a stable sort so that equal-scored
// articles keep their prior relative order.
func (s *ArticleStore) SortStable(less func(a, b *Article) bool) {
	stableSort(s.articles, less)
}

// ExecutionPlan is an ordered list of step names produced by the planner,
// immutable once built.
type ExecutionPlan []Step

// StepFunc is the work behind one catalogue entry. It reads and mutates the
// shared store and reports a small result record.
type StepFunc func(ctx context.Context, store *ArticleStore) (StepResult, error)

// StepResult is the per-step record accumulated into a RunResult. Failure is
// captured as data: Success false plus Error text, never a propagated error.
type StepResult struct {
	Step     Step                   `json:"step"`
	Success  bool                   `json:"success"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Report   *Report                `json:"report,omitempty"` // generate_summary_report only
	Error    string                 `json:"error,omitempty"`
	Duration time.Duration          `json:"duration"`
}

// RunResult is the terminal outcome of one run, partial if cancelled.
type RunResult struct {
	RunID             string              `json:"run_id"`
	Query             string              `json:"query"`
	Plan              ExecutionPlan       `json:"plan"`
	Steps             map[Step]StepResult `json:"execution_results"`
	ArticlesProcessed int                 `json:"articles_processed"`
	Cancelled         bool                `json:"cancelled,omitempty"`
	StartedAt         time.Time           `json:"started_at"`
	CompletedAt       time.Time           `json:"completion_time"`
}

// Report returns the generated report when the plan included the report
// step, nil otherwise.
func (r *RunResult) Report() *Report {
	if res, ok := r.Steps[StepReport]; ok {
		return res.Report
	}
	return nil
}

// RunState enumerates the externally visible lifecycle of an agent instance.
type RunState string

const (
	StateIdle      RunState = "idle"
	StateRunning   RunState = "running"
	StateCompleted RunState = "completed"
	StateFailed    RunState = "failed"
)

// RunStatus is a point-in-time snapshot of a run's progress.
type RunStatus struct {
	RunID          string    `json:"run_id,omitempty"`
	State          RunState  `json:"status"`
	Progress       float64   `json:"progress"` // 0.0 to 1.0
	CurrentStep    Step      `json:"current_step,omitempty"`
	CompletedSteps int       `json:"completed_steps"`
	TotalSteps     int       `json:"total_steps"`
	Error          string    `json:"error,omitempty"`
	StartedAt      time.Time `json:"started_at,omitempty"`
	LastUpdated    time.Time `json:"last_updated,omitempty"`
}

// ProgressEvent is emitted at every step boundary so drivers (CLI, HTTP,
// telemetry) can observe a run without the executor knowing about them.
type ProgressEvent struct {
	RunID    string
	Step     Step
	Index    int // 0-based position in the plan
	Total    int
	Finished bool // false on step start, true on step end
	Result   *StepResult
}

// ProgressFunc receives progress events; it must not block.
type ProgressFunc func(ProgressEvent)
