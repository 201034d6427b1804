package core

import (
	"log"
	"math/rand"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/mohammad-safakhou/newsagent/config"
)

// Pipeline owns the step implementations and their shared collaborators:
// the feed parser, the page content extractor and the profile knobs.
type Pipeline struct {
	sources      []string
	maxPerSource int
	profile      config.ProfileConfig
	extractDelay time.Duration

	feeds     *gofeed.Parser
	extractor *ContentExtractor

	// jitter supplies the bounded random recency component of the
	// relevance score; injectable so ranking tests are deterministic.
	jitter func() int

	logger *log.Logger
}

// NewPipeline wires the pipeline from configuration.
func NewPipeline(cfg *config.Config) *Pipeline {
	profile := cfg.Pipeline.ResolveProfile()
	client := NewHTTPClient(cfg.Fetch.Timeout, profile.UserAgent, cfg.Fetch.Retries, cfg.Fetch.Backoff)

	feeds := gofeed.NewParser()
	feeds.Client = client.StdClient()
	feeds.UserAgent = profile.UserAgent

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return &Pipeline{
		sources:      cfg.Sources.FeedURLs,
		maxPerSource: cfg.Sources.MaxPerSource,
		profile:      profile,
		extractDelay: cfg.Pipeline.ExtractDelay,
		feeds:        feeds,
		extractor:    NewContentExtractor(client),
		jitter:       func() int { return rng.Intn(maxRecencyJitter + 1) },
		logger:       log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags),
	}
}

// StepTable maps every catalogue name to its handler. The executor dispatches
// through this table only.
func (p *Pipeline) StepTable() map[Step]StepFunc {
	return map[Step]StepFunc{
		StepFetchFeeds:     p.fetchNewsFeeds,
		StepExtractContent: p.extractArticleContent,
		StepAnalyzeQuality: p.analyzeContentQuality,
		StepSummarize:      p.summarizeArticles,
		StepRank:           p.rankByRelevance,
		StepReport:         p.generateSummaryReport,
		StepFilterTech:     p.filterTechContent,
	}
}
