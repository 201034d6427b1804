package core

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// contentSelectors is the cascade tried against a page before falling back
// to joining every paragraph.
var contentSelectors = []string{
	"article", "[role=\"main\"]", ".article-body",
	".story-body", ".entry-content", "main",
}

// ContentExtractor turns an article URL into best-effort plain text. It
// tries readability extraction first and falls back to a selector cascade
// over the raw document.
type ContentExtractor struct {
	client *HTTPClient
}

// NewContentExtractor wires the extractor to the shared HTTP client.
func NewContentExtractor(client *HTTPClient) *ContentExtractor {
	return &ContentExtractor{client: client}
}

// Extract fetches a page and returns its normalized text (whitespace
// collapsed, untruncated). Any network or parse failure is returned to the
// caller, which treats it as "no content" for that article.
func (e *ContentExtractor) Extract(ctx context.Context, link string) (string, error) {
	body, err := e.client.Get(ctx, link)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", link, err)
	}

	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse url %s: %w", link, err)
	}

	if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
		if text := collapseWhitespace(article.TextContent); text != "" {
			return text, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse document %s: %w", link, err)
	}

	var text string
	for _, selector := range contentSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		var parts []string
		sel.Each(func(_ int, s *goquery.Selection) {
			parts = append(parts, s.Text())
		})
		text = strings.Join(parts, " ")
		break
	}
	if text == "" {
		var parts []string
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			parts = append(parts, s.Text())
		})
		text = strings.Join(parts, " ")
	}

	return collapseWhitespace(text), nil
}

// extractArticleContent fetches page text for a bounded prefix of the store
// to cap latency, setting content and word count together. One article's
// failure never blocks extraction of the others.
func (p *Pipeline) extractArticleContent(ctx context.Context, store *ArticleStore) (StepResult, error) {
	arts := store.Articles()
	limit := p.profile.ExtractLimit
	if limit > len(arts) {
		limit = len(arts)
	}

	extracted := 0
	for i, article := range arts[:limit] {
		if article.Link == "" {
			continue
		}

		text, err := p.extractor.Extract(ctx, article.Link)
		if err != nil {
			p.logger.Printf("failed to extract content from %s: %v", article.Link, err)
			continue
		}
		article.SetContent(text, p.profile.ContentMaxChars)
		extracted++

		// Courtesy pacing between page requests.
		if p.extractDelay > 0 && i < limit-1 {
			select {
			case <-time.After(p.extractDelay):
			case <-ctx.Done():
				p.logger.Printf("extraction cut short: %v", ctx.Err())
				return StepResult{Data: map[string]interface{}{"extracted_articles": extracted}}, nil
			}
		}
	}

	p.logger.Printf("extracted content from %d articles", extracted)
	return StepResult{Data: map[string]interface{}{"extracted_articles": extracted}}, nil
}
