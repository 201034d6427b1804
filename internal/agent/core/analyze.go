package core

import (
	"context"
	"math"
)

// analyzeContentQuality scores readability and heuristic quality for every
// article that has extracted content. Articles without content are left
// untouched; later steps treat their missing scores as zero.
func (p *Pipeline) analyzeContentQuality(ctx context.Context, store *ArticleStore) (StepResult, error) {
	analyzed := 0
	for _, article := range store.Articles() {
		if article.Content == "" {
			continue
		}

		score, err := fleschReadingEase(article.Content)
		if err != nil {
			score = neutralReadability
		}
		article.ReadabilityScore = score

		quality := 0
		if article.WordCount > 100 {
			quality += 20
		}
		if article.WordCount > 300 {
			quality += 20
		}
		if len(article.Title) > 10 {
			quality += 10
		}
		if article.Summary != "" {
			quality += 10
		}
		article.QualityScore = quality

		analyzed++
	}

	var sum float64
	scored := 0
	for _, article := range store.Articles() {
		if article.ReadabilityScore != 0 {
			sum += article.ReadabilityScore
			scored++
		}
	}
	avg := 0.0
	if scored > 0 {
		avg = math.Round(sum/float64(scored)*100) / 100
	}

	p.logger.Printf("analyzed %d articles, average readability %.2f", analyzed, avg)
	return StepResult{Data: map[string]interface{}{
		"analyzed_articles":   analyzed,
		"average_readability": avg,
	}}, nil
}
