package core

import (
	"io"
	"log"

	"github.com/mohammad-safakhou/newsagent/config"
)

// newTestPipeline builds a pipeline with no network collaborators wired, a
// fixed jitter and a silent logger; only the pure steps are usable on it.
func newTestPipeline(profile config.ProfileConfig, jitter int) *Pipeline {
	return &Pipeline{
		profile: profile,
		jitter:  func() int { return jitter },
		logger:  log.New(io.Discard, "", 0),
	}
}

func storeOf(articles ...*Article) *ArticleStore {
	s := NewArticleStore()
	s.Replace(articles)
	return s
}
