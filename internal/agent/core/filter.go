package core

import (
	"context"
	"strings"
)

// techFilterKeywords keep an article when any of them appears in its
// combined title, feed summary and extracted content.
var techFilterKeywords = []string{
	"ai", "artificial intelligence", "machine learning", "technology",
	"software", "computer", "digital", "tech", "innovation", "startup",
}

// filterTechContent destructively replaces the store with the subset of
// articles that mention a technology keyword, preserving relative order.
func (p *Pipeline) filterTechContent(ctx context.Context, store *ArticleStore) (StepResult, error) {
	var kept []*Article
	for _, article := range store.Articles() {
		text := strings.ToLower(article.Title + " " + article.Summary + " " + article.Content)
		if containsAny(text, techFilterKeywords) {
			kept = append(kept, article)
		}
	}
	store.Replace(kept)

	p.logger.Printf("filtered down to %d tech articles", len(kept))
	return StepResult{Data: map[string]interface{}{"tech_articles_found": len(kept)}}, nil
}
