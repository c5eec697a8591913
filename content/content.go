// Package content normalizes raw scraped article text and derives simple
// text metrics from it.
package content

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	imageMarkerRe   = regexp.MustCompile(`\[CONTENT IMAGE:[^\]\n]*\]`)
	sourceLineRe    = regexp.MustCompile(`Source:\s*https?://\S+`)
	headerMarkerRe  = regexp.MustCompile(`H2:\s*`)
	manyNewlinesRe  = regexp.MustCompile(`\n{3,}`)
	blankLineRe     = regexp.MustCompile(`\n\s*\n`)
	spaceRunRe      = regexp.MustCompile(`[ \t]+`)
	bracketRe       = regexp.MustCompile(`\[[^\]\n]*\]`)
)

// Clean converts raw scraped or JSON-wrapped article text into clean
// Markdown-like text. Input that is a JSON object is unwrapped to its
// "content" field (empty if absent); anything that fails to parse as JSON is
// treated as raw text. Clean never fails and is idempotent.
//
// The transformation order matters: later passes depend on the earlier
// cleanup. The catch-all bracket strip runs last so it only sees fragments
// the specific marker passes missed.
func Clean(raw string) string {
	text := raw
	var wrapped map[string]any
	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil {
		text, _ = wrapped["content"].(string)
	}

	text = imageMarkerRe.ReplaceAllString(text, "")
	text = sourceLineRe.ReplaceAllString(text, "")
	text = headerMarkerRe.ReplaceAllString(text, "## ")
	text = manyNewlinesRe.ReplaceAllString(text, "\n\n")
	text = blankLineRe.ReplaceAllString(text, "\n\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = bracketRe.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}

// WordCount returns the whitespace-split word count of the cleaned text.
// It is a plain ASCII-whitespace split, not locale or Unicode-segmentation
// aware.
func WordCount(raw string) int {
	return len(strings.Fields(Clean(raw)))
}
