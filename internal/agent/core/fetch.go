package core

import (
	"context"
)

// fetchNewsFeeds pulls entries from every configured feed, keeping at most
// maxPerSource per feed, and replaces the store contents with the result. A
// feed that fails to fetch or parse contributes nothing and never aborts the
// other sources.
func (p *Pipeline) fetchNewsFeeds(ctx context.Context, store *ArticleStore) (StepResult, error) {
	var all []*Article
	successful := 0
	failed := 0

	for _, src := range p.sources {
		feed, err := p.feeds.ParseURLWithContext(src, ctx)
		if err != nil {
			p.logger.Printf("failed to fetch from %s: %v", src, err)
			failed++
			continue
		}

		added := 0
		for _, item := range feed.Items {
			if added >= p.maxPerSource {
				break
			}
			title := item.Title
			if title == "" {
				title = "No title"
			}
			all = append(all, &Article{
				Title:     title,
				Link:      item.Link,
				Published: item.Published,
				Summary:   item.Description,
				Source:    src,
			})
			added++
		}
		if added > 0 {
			successful++
		}
	}

	store.Replace(all)
	p.logger.Printf("fetched %d articles from %d sources", len(all), successful)

	return StepResult{Data: map[string]interface{}{
		"total_articles":     len(all),
		"successful_sources": successful,
		"failed_sources":     failed,
	}}, nil
}
