package content

import (
	"regexp"
	"strings"
	"testing"
)

func TestCleanUnwrapsJSONContent(t *testing.T) {
	raw := `{"content": "H2: Title\n\nSome text.\n\n\n\nMore."}`
	want := "## Title\n\nSome text.\n\nMore."

	if got := Clean(raw); got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestCleanTreatsInvalidJSONAsRawText(t *testing.T) {
	raw := "H2: Heading\nPlain text, not JSON."
	want := "## Heading\nPlain text, not JSON."

	if got := Clean(raw); got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestCleanStripsMarkers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "image marker",
			raw:  "Before\n[CONTENT IMAGE: A chart showing growth]\nAfter",
			want: "Before\n\nAfter",
		},
		{
			name: "source line",
			raw:  "Before\nSource: https://example.com/img.png\nAfter",
			want: "Before\n\nAfter",
		},
		{
			name: "trailing catch-all bracket",
			raw:  "Keep [stray markup]",
			want: "Keep",
		},
		{
			name: "leading catch-all bracket",
			raw:  "[stray markup] keep",
			want: "keep",
		},
		{
			name: "space runs",
			raw:  "too    many\tspaces",
			want: "too many spaces",
		},
		{
			name: "blank line with spaces",
			raw:  "para one\n   \npara two",
			want: "para one\n\npara two",
		},
		{
			name: "whitespace line next to blank line",
			raw:  "a\n \n\nb",
			want: "a\n\nb",
		},
		{
			name: "mixed whitespace lines",
			raw:  "a\n\t\n \n\nb",
			want: "a\n\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.raw); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		`{"content": "H2: Title\n\nSome text.\n\n\n\nMore."}`,
		"Before\n[CONTENT IMAGE: chart]\nSource: https://example.com/a.png\nAfter",
		"plain text with   spaces\n\n\n\nand newlines",
		"",
		"[only a marker]",
		"H2: Heading\nSome body text.",
		"a\n \n\nb",
	}

	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestCleanLeavesNoBracketsOrTripleNewlines(t *testing.T) {
	bracket := regexp.MustCompile(`\[[^\]\n]*\]`)
	inputs := []string{
		"[a][b][c]",
		"text [one] more [two]\n\n\n\n\nend",
		"[CONTENT IMAGE: x] [CONTENT IMAGE: y]",
		"nested [outer [sort of] text]",
		"a\n \n\nb",
		"a\n\t\n \n\nb\n   \n\nc",
	}

	for _, in := range inputs {
		got := Clean(in)
		if bracket.MatchString(got) {
			t.Errorf("Clean(%q) left bracketed fragment: %q", in, got)
		}
		if strings.Contains(got, "\n\n\n") {
			t.Errorf("Clean(%q) left triple newline: %q", in, got)
		}
	}
}

func TestWordCount(t *testing.T) {
	inputs := []string{
		`{"content": "H2: Title\n\nSome text.\n\n\n\nMore."}`,
		"five words in this sentence",
		"",
		"[marker only]",
	}

	for _, in := range inputs {
		want := len(strings.Fields(Clean(in)))
		if got := WordCount(in); got != want {
			t.Errorf("WordCount(%q) = %d, want %d", in, got, want)
		}
	}

	if got := WordCount("five words in this sentence"); got != 5 {
		t.Errorf("WordCount = %d, want 5", got)
	}
}
