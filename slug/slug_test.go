package slug

import (
	"testing"
)

func TestUniqueID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "host and path",
			input:    "https://example.com/blog/email-tips",
			expected: "examplecomblogemailtips",
		},
		{
			name:     "uppercase and punctuation stripped",
			input:    "HTTPS://Example.COM/Blog/Post-1_Final/",
			expected: "examplecomblogpost1final",
		},
		{
			name:     "query and fragment ignored",
			input:    "https://example.com/blog/post?utm=x#section",
			expected: "examplecomblogpost",
		},
		{
			name:     "same article same id",
			input:    "https://example.com/blog/email-tips/",
			expected: "examplecomblogemailtips",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UniqueID(tt.input)
			if result != tt.expected {
				t.Errorf("UniqueID(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "full URL",
			input:    "https://example.com/blog/email-tips",
			expected: "email-tips",
		},
		{
			name:     "trailing slash",
			input:    "https://example.com/blog/email-tips/",
			expected: "email-tips",
		},
		{
			name:     "bare path with query",
			input:    "/blog/email-tips?utm=x",
			expected: "email-tips",
		},
		{
			name:     "root path",
			input:    "https://example.com/",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FromURL(tt.input)
			if result != tt.expected {
				t.Errorf("FromURL(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "basic ascii",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "with punctuation",
			input:    "Hello, World!",
			expected: "hello-world",
		},
		{
			name:     "with multiple spaces",
			input:    "Hello   World   Test",
			expected: "hello-world-test",
		},
		{
			name:     "with unicode characters",
			input:    "Café München",
			expected: "cafe-munchen",
		},
		{
			name:     "with special characters",
			input:    "Hello@#$%World",
			expected: "helloworld",
		},
		{
			name:     "with leading/trailing spaces",
			input:    "  Hello World  ",
			expected: "hello-world",
		},
		{
			name:     "with hyphens",
			input:    "Hello-World-Test",
			expected: "hello-world-test",
		},
		{
			name:     "with underscores",
			input:    "Hello_World_Test",
			expected: "hello-world-test",
		},
		{
			name:     "very long string",
			input:    "This is a very long title that should be truncated to one hundred characters maximum for SEO purposes and URL readability",
			expected: "this-is-a-very-long-title-that-should-be-truncated-to-one-hundred-characters-maximum-for-seo-purpose",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only special characters",
			input:    "@#$%^&*()",
			expected: "",
		},
		{
			name:     "cyrillic characters",
			input:    "Привет Мир",
			expected: "", // Cyrillic chars are removed, not transliterated
		},
		{
			name:     "mixed case with numbers",
			input:    "Article 123 Test",
			expected: "article-123-test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Generate(tt.input)
			if result != tt.expected {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGenerateWithFallback(t *testing.T) {
	tests := []struct {
		name     string
		primary  string
		fallback string
		expected string
	}{
		{
			name:     "use primary when valid",
			primary:  "Test Article",
			fallback: "https://example.com/article",
			expected: "test-article",
		},
		{
			name:     "use fallback when primary empty",
			primary:  "",
			fallback: "https://example.com/article",
			expected: "httpsexamplecomarticle", // Special chars removed
		},
		{
			name:     "use fallback when primary only special chars",
			primary:  "@#$%",
			fallback: "fallback-value",
			expected: "fallback-value",
		},
		{
			name:     "both empty returns empty",
			primary:  "",
			fallback: "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateWithFallback(tt.primary, tt.fallback)
			if result != tt.expected {
				t.Errorf("GenerateWithFallback(%q, %q) = %q, want %q", tt.primary, tt.fallback, result, tt.expected)
			}
		})
	}
}

func TestSlugLength(t *testing.T) {
	// Slugs never exceed 100 characters
	longInput := "This is an extremely long title that goes on and on and should definitely be truncated because it exceeds the maximum allowed length for a URL slug which is one hundred characters"

	result := Generate(longInput)
	if len(result) > 100 {
		t.Errorf("Slug length %d exceeds maximum of 100 characters", len(result))
	}
}
