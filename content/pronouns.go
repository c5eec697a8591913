package content

import (
	"regexp"
	"strings"

	"github.com/zombar/blogaudit/models"
)

// quotePairs maps recognized opening quote delimiters to their closers.
var quotePairs = map[string]string{
	`"`: `"`,
	"“": "”", // curly double quotes
	"‘": "’", // curly single quotes
}

var pronounRe = regexp.MustCompile(`(?i)\b(I|me|my|mine|myself)\b`)

var sentenceEndRe = regexp.MustCompile(`[.!?]`)

// CountPersonalPronouns scans raw article text for first-person pronouns
// (I, me, my, mine, myself), ignoring any that appear inside quoted speech.
// Marketing copy should avoid first-person language, but customer
// testimonials inside quotes are expected to use it.
//
// The scan works on the raw (uncleaned) text: quote and sentence detection
// need the original punctuation. Offsets in the report are byte offsets.
// The function is pure; identical input yields byte-identical output.
func CountPersonalPronouns(text string) models.PronounReport {
	quotes := findQuotedRegions(text)

	inQuotes := func(pos int) bool {
		for _, q := range quotes {
			if q[0] <= pos && pos <= q[1] {
				return true
			}
		}
		return false
	}

	sentences := splitSentences(text)

	report := models.PronounReport{
		FoundPronouns:         []string{},
		QuotedRegions:         quotes,
		SentencesWithPronouns: []string{},
	}

	seen := make(map[string]bool)
	for _, m := range pronounRe.FindAllStringIndex(text, -1) {
		if inQuotes(m[0]) {
			continue
		}
		report.Count++
		report.FoundPronouns = append(report.FoundPronouns, text[m[0]:m[1]])

		for _, s := range sentences {
			if s.start <= m[0] && m[0] < s.end {
				if !seen[s.text] {
					report.SentencesWithPronouns = append(report.SentencesWithPronouns, s.text)
					seen[s.text] = true
				}
				break
			}
		}
	}

	report.Flag = report.Count > 0
	return report
}

// findQuotedRegions locates quoted spans in one forward pass. At each step
// the earliest unconsumed opener of any recognized kind starts a region; a
// missing closer extends the region to end of text. A later opener never
// retroactively extends an earlier region.
func findQuotedRegions(text string) [][2]int {
	regions := [][2]int{}
	pos := 0

	for pos < len(text) {
		opener, openAt := "", len(text)
		for open := range quotePairs {
			if i := strings.Index(text[pos:], open); i >= 0 && pos+i < openAt {
				opener = open
				openAt = pos + i
			}
		}
		if opener == "" {
			break
		}

		closer := quotePairs[opener]
		end := len(text)
		advance := len(text)
		if i := strings.Index(text[openAt+len(opener):], closer); i >= 0 {
			end = openAt + len(opener) + i
			advance = end + len(closer)
		}

		regions = append(regions, [2]int{openAt, end})
		pos = advance
	}

	return regions
}

type sentenceSpan struct {
	text  string
	start int
	end   int
}

// splitSentences splits on ., ! and ? with the terminator kept on the
// preceding sentence; a trailing fragment without terminal punctuation forms
// the final sentence. Boundaries are purely punctuation based, with no
// abbreviation or decimal awareness ("Dr. Smith" splits at the period).
// That approximation is deliberate and pinned by tests.
func splitSentences(text string) []sentenceSpan {
	var spans []sentenceSpan
	start := 0

	for _, m := range sentenceEndRe.FindAllStringIndex(text, -1) {
		end := m[1]
		if s := strings.TrimSpace(text[start:end]); s != "" {
			spans = append(spans, sentenceSpan{text: s, start: start, end: end})
		}
		start = end
	}

	if start < len(text) {
		if s := strings.TrimSpace(text[start:]); s != "" {
			spans = append(spans, sentenceSpan{text: s, start: start, end: len(text)})
		}
	}

	return spans
}
