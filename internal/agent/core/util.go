package core

import (
	"sort"
	"strings"
)

func stableSort(articles []*Article, less func(a, b *Article) bool) {
	sort.SliceStable(articles, func(i, j int) bool {
		return less(articles[i], articles[j])
	})
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

// clip truncates s to at most max bytes without adding an ellipsis.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
