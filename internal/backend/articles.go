package backend

import (
	"fmt"
	"strings"
	"time"
)

// ParseArticles turns free-form user input into pipeline articles. A single
// non-empty line becomes one article titled "User Provided News"; N>1
// non-empty lines become N articles titled "News Article {i}" in input
// order. Blank and whitespace-only lines are dropped. Returns nil when the
// input has no content.
func ParseArticles(input string, now time.Time) []Article {
	var lines []string
	for _, line := range strings.Split(input, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	date := now.Format(time.RFC3339)

	if len(lines) == 1 {
		return []Article{{
			Title:   "User Provided News",
			Content: lines[0],
			Date:    date,
			Source:  "User Input",
		}}
	}

	articles := make([]Article, 0, len(lines))
	for i, line := range lines {
		articles = append(articles, Article{
			Title:   fmt.Sprintf("News Article %d", i+1),
			Content: line,
			Date:    date,
			Source:  "User Input",
		})
	}
	return articles
}

// NormalizeSymbol canonicalizes a user-entered stock symbol: trimmed and
// uppercased. An empty result means the input was blank.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
