package core

import (
	"context"
	"strings"
)

// noSummaryPlaceholder is stored when neither extracted content nor a feed
// summary is available.
const noSummaryPlaceholder = "No summary available"

// summarizeArticles builds an extractive summary from the leading sentences
// of each article's content, falling back to the feed-provided summary. The
// returned count covers the extractive path only.
func (p *Pipeline) summarizeArticles(ctx context.Context, store *ArticleStore) (StepResult, error) {
	summarized := 0

	for _, article := range store.Articles() {
		if len(article.Content) > 100 {
			sentences := strings.Split(article.Content, ". ")
			n := p.profile.SummarySentences
			if n > len(sentences) {
				n = len(sentences)
			}
			article.AISummary = clip(strings.Join(sentences[:n], ". "), p.profile.SummaryMaxChars) + "..."
			summarized++
			continue
		}
		if article.Summary != "" {
			article.AISummary = clip(article.Summary, p.profile.SummaryMaxChars)
		} else {
			article.AISummary = noSummaryPlaceholder
		}
	}

	p.logger.Printf("summarized %d articles", summarized)
	return StepResult{Data: map[string]interface{}{"summarized_articles": summarized}}, nil
}
