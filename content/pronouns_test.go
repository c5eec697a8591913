package content

import (
	"reflect"
	"strings"
	"testing"
)

func TestCountPersonalPronounsExcludesQuoted(t *testing.T) {
	text := `She said "I love this" but I disagree.`
	report := CountPersonalPronouns(text)

	if report.Count != 1 {
		t.Errorf("Count = %d, want 1", report.Count)
	}
	if !report.Flag {
		t.Error("Flag = false, want true")
	}
	if len(report.FoundPronouns) != 1 || report.FoundPronouns[0] != "I" {
		t.Errorf("FoundPronouns = %v, want [I]", report.FoundPronouns)
	}
	if len(report.QuotedRegions) != 1 {
		t.Fatalf("QuotedRegions = %v, want one region", report.QuotedRegions)
	}
	if len(report.SentencesWithPronouns) != 1 ||
		!strings.Contains(report.SentencesWithPronouns[0], "but I disagree.") {
		t.Errorf("SentencesWithPronouns = %v", report.SentencesWithPronouns)
	}
}

func TestCountPersonalPronounsNoPronouns(t *testing.T) {
	report := CountPersonalPronouns("The team shipped the feature. Customers loved it.")

	if report.Count != 0 {
		t.Errorf("Count = %d, want 0", report.Count)
	}
	if report.Flag {
		t.Error("Flag = true, want false")
	}
	if len(report.FoundPronouns) != 0 || len(report.SentencesWithPronouns) != 0 {
		t.Errorf("unexpected findings: %+v", report)
	}
}

func TestCountPersonalPronounsAllForms(t *testing.T) {
	text := "I took me to my house where mine sat by myself."
	report := CountPersonalPronouns(text)

	if report.Count != 5 {
		t.Errorf("Count = %d, want 5", report.Count)
	}
	want := []string{"I", "me", "my", "mine", "myself"}
	if !reflect.DeepEqual(report.FoundPronouns, want) {
		t.Errorf("FoundPronouns = %v, want %v", report.FoundPronouns, want)
	}
}

func TestCountPersonalPronounsCaseInsensitive(t *testing.T) {
	report := CountPersonalPronouns("MY plan worked. ME too.")
	if report.Count != 2 {
		t.Errorf("Count = %d, want 2", report.Count)
	}
}

func TestCountPersonalPronounsWordBoundaries(t *testing.T) {
	// "mine" in "undermine" and "I" in "IBM" must not match.
	report := CountPersonalPronouns("They undermine the IBM deal. Imagine that.")
	if report.Count != 0 {
		t.Errorf("Count = %d, want 0: %v", report.Count, report.FoundPronouns)
	}
}

func TestCountPersonalPronounsCurlyQuotes(t *testing.T) {
	text := "He wrote “I am thrilled” and I agreed."
	report := CountPersonalPronouns(text)

	if report.Count != 1 {
		t.Errorf("Count = %d, want 1: %v", report.Count, report.FoundPronouns)
	}
	if len(report.QuotedRegions) != 1 {
		t.Errorf("QuotedRegions = %v, want one region", report.QuotedRegions)
	}
}

func TestCountPersonalPronounsUnclosedQuote(t *testing.T) {
	// A missing closer swallows the rest of the text.
	text := `Fine so far. "I never finished this quote and I kept going`
	report := CountPersonalPronouns(text)

	if report.Count != 0 {
		t.Errorf("Count = %d, want 0 (everything after the opener is quoted)", report.Count)
	}
}

func TestCountPersonalPronounsDeduplicatesSentences(t *testing.T) {
	text := "I think my idea works."
	report := CountPersonalPronouns(text)

	if report.Count != 2 {
		t.Errorf("Count = %d, want 2", report.Count)
	}
	if len(report.SentencesWithPronouns) != 1 {
		t.Errorf("SentencesWithPronouns = %v, want the sentence once", report.SentencesWithPronouns)
	}
}

func TestCountPersonalPronounsDeterministic(t *testing.T) {
	text := `She said "I love this" but I disagree. “My take” differs. Not mine though.`
	first := CountPersonalPronouns(text)
	for i := 0; i < 20; i++ {
		if got := CountPersonalPronouns(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestFindQuotedRegionsOffsets(t *testing.T) {
	text := `a "bc" d`
	regions := findQuotedRegions(text)

	want := [][2]int{{2, 5}}
	if !reflect.DeepEqual(regions, want) {
		t.Errorf("findQuotedRegions(%q) = %v, want %v", text, regions, want)
	}
}

func TestSplitSentencesKeepsTerminator(t *testing.T) {
	spans := splitSentences("One. Two! Three? tail")

	var texts []string
	for _, s := range spans {
		texts = append(texts, s.text)
	}
	want := []string{"One.", "Two!", "Three?", "tail"}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("splitSentences = %v, want %v", texts, want)
	}
}
