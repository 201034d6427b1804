package core

import (
	"context"
	"strings"
)

// urgencyKeywords earn a title its urgency bonus.
var urgencyKeywords = []string{"breaking", "urgent", "major", "significant", "important"}

const (
	urgencyBonus     = 20
	readabilityBonus = 10
	maxRecencyJitter = 10
)

// relevanceBase is the deterministic part of the relevance score: urgency
// keyword bonus plus quality score plus readability bonus.
func relevanceBase(article *Article) int {
	score := 0
	if containsAny(strings.ToLower(article.Title), urgencyKeywords) {
		score += urgencyBonus
	}
	score += article.QualityScore
	if article.ReadabilityScore > 60 {
		score += readabilityBonus
	}
	return score
}

// rankByRelevance scores every article and stable-sorts the store by
// descending relevance, so equal scores keep their pre-sort order. The
// bounded jitter stands in for an unmodeled recency signal.
func (p *Pipeline) rankByRelevance(ctx context.Context, store *ArticleStore) (StepResult, error) {
	for _, article := range store.Articles() {
		article.RelevanceScore = relevanceBase(article) + p.jitter()
	}

	store.SortStable(func(a, b *Article) bool {
		return a.RelevanceScore > b.RelevanceScore
	})

	topScore := 0
	if store.Len() > 0 {
		topScore = store.Articles()[0].RelevanceScore
	}

	p.logger.Printf("ranked %d articles, top score %d", store.Len(), topScore)
	return StepResult{Data: map[string]interface{}{
		"total_ranked": store.Len(),
		"top_score":    topScore,
	}}, nil
}
