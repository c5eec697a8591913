package analysis

import (
	"regexp"
	"strings"
)

var (
	fenceRe = regexp.MustCompile("```\\w*\\n?")

	// Matches a `"key": "value"` span so quotes inside the value can be
	// escaped. The trailing delimiter is captured (RE2 has no lookahead)
	// and written back unchanged.
	keyValueRe = regexp.MustCompile(`("[\w\s/-]+"\s*:\s*)"(.+?)"(\s*[,}])`)

	smartQuotes = strings.NewReplacer("“", `"`, "”", `"`)
)

// stripFences removes Markdown code-fence wrappers from a model reply.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = fenceRe.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// fixJSONQuotes is a best-effort repair pass for almost-JSON replies:
// smart double quotes become straight quotes, then any quote characters
// inside detected "key": "value" spans are escaped. It is a heuristic safety
// net, not a guarantee; callers must re-parse the result and treat a second
// failure as terminal.
func fixJSONQuotes(s string) string {
	s = smartQuotes.Replace(s)
	return keyValueRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := keyValueRe.FindStringSubmatch(m)
		escaped := strings.ReplaceAll(parts[2], `"`, `\"`)
		return parts[1] + `"` + escaped + `"` + parts[3]
	})
}
