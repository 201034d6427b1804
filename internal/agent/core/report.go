package core

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"
)

const emptyReportMarker = "No articles found to summarize."

// Report is the final artifact of a run.
type Report struct {
	Marker         string        `json:"report,omitempty"`
	Timestamp      time.Time     `json:"timestamp,omitempty"`
	TotalProcessed int           `json:"total_articles_processed,omitempty"`
	TopArticles    []ReportEntry `json:"top_articles,omitempty"`
	Insights       *Insights     `json:"insights,omitempty"`
}

// ReportEntry summarizes one ranked article.
type ReportEntry struct {
	Rank           int    `json:"rank"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	RelevanceScore int    `json:"relevance_score"`
	WordCount      int    `json:"word_count"`
	Link           string `json:"link"`
}

// Insights aggregates scores across the whole store, not just the top
// entries.
type Insights struct {
	AverageRelevance float64      `json:"average_relevance_score"`
	CommonTopics     []TopicCount `json:"most_common_topics,omitempty"`
	ContentQuality   string       `json:"content_quality"`
}

// TopicCount is a title word and how many titles mention it.
type TopicCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

func (p *Pipeline) generateSummaryReport(ctx context.Context, store *ArticleStore) (StepResult, error) {
	p.logger.Printf("generating summary report")

	articles := store.Articles()
	if len(articles) == 0 {
		report := &Report{Marker: emptyReportMarker}
		return StepResult{Report: report}, nil
	}

	topN := p.profile.ReportTopN
	if topN > len(articles) {
		topN = len(articles)
	}

	report := &Report{
		Timestamp:      time.Now(),
		TotalProcessed: len(articles),
	}
	for i, article := range articles[:topN] {
		summary := article.AISummary
		if summary == "" {
			summary = article.Summary
		}
		report.TopArticles = append(report.TopArticles, ReportEntry{
			Rank:           i + 1,
			Title:          article.Title,
			Summary:        clip(summary, p.profile.ReportSummaryChars),
			RelevanceScore: article.RelevanceScore,
			WordCount:      article.WordCount,
			Link:           article.Link,
		})
	}

	total := 0
	for _, article := range articles {
		total += article.RelevanceScore
	}
	avg := float64(total) / float64(len(articles))

	quality := "Basic"
	switch {
	case avg > 30:
		quality = "High"
	case avg > 15:
		quality = "Medium"
	}

	report.Insights = &Insights{
		AverageRelevance: math.Round(avg*100) / 100,
		ContentQuality:   quality,
	}
	if p.profile.TopicInsights {
		report.Insights.CommonTopics = commonTopics(articles)
	}

	return StepResult{Report: report}, nil
}

// commonTopics counts title words longer than four characters and returns
// the five most frequent, ties broken alphabetically.
func commonTopics(articles []*Article) []TopicCount {
	freq := map[string]int{}
	for _, article := range articles {
		for _, word := range strings.Fields(strings.ToLower(article.Title)) {
			if len(word) > 4 {
				freq[word]++
			}
		}
	}

	topics := make([]TopicCount, 0, len(freq))
	for word, count := range freq {
		topics = append(topics, TopicCount{Word: word, Count: count})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Word < topics[j].Word
	})
	if len(topics) > 5 {
		topics = topics[:5]
	}
	return topics
}
