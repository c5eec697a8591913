package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/zombar/blogaudit/models"
)

// Axis is one independent dimension of content analysis, defined as data so
// new axes are a table entry, not a new call site.
type Axis struct {
	Name     string
	System   string
	Validate func(map[string]any) error
}

// Categorize determines the primary category of the content. The reply must
// carry a "category" field whose value is a member of the configured
// category list; membership failure and JSON-parse failure surface as
// distinct error messages.
func (c *Client) Categorize(ctx context.Context, cleaned string) models.AnalysisResult {
	categories := c.config.Categories
	axis := Axis{
		Name: "categorize",
		System: "You are a content categorization specialist for a B2B marketing " +
			"technology website. Analyze content and determine the most appropriate " +
			"category based on its primary focus and purpose.",
		Validate: func(parsed map[string]any) error {
			v, ok := parsed["category"]
			if !ok {
				return fmt.Errorf("response missing 'category' field")
			}
			category, _ := v.(string)
			for _, c := range categories {
				if category == c {
					return nil
				}
			}
			return fmt.Errorf("invalid category returned: %q", category)
		},
	}

	prompt := fmt.Sprintf(`Here are the available categories:
%s

Guidelines for categorization:

1. Primary Focus: Categorize based on the main topic and purpose, not just keyword matches
2. Hierarchy: Choose specific categories over general ones when applicable
3. Default Rules: pick 'Uncategorized' only when no other category clearly fits

Output ONLY valid JSON format with exactly these keys and no others:
{
    "category": "exact category name from the list",
    "reasoning": "Two sentence explanation of why this category best fits the content's primary focus and purpose"
}

Analyze this content:

%s`, strings.Join(categories, ", "), cleaned)

	return c.analyze(ctx, axis, prompt)
}

// QualityBrandFit scores overall content quality and brand alignment.
func (c *Client) QualityBrandFit(ctx context.Context, cleaned string) models.AnalysisResult {
	axis := Axis{
		Name:   "quality_brand_fit",
		System: "You are an expert content evaluator analyzing quality and brand alignment.",
	}

	prompt := fmt.Sprintf(`Analyze this content's quality and brand alignment.

<Content to analyze>
%s
</Content to analyze>

Score these quality factors (0-100):
1. Writing Excellence (clear communication, grammar, structure)
2. Structure & Organization (logical flow, clear hierarchy)
3. Value & Impact (audience focus, actionable insights)
4. Engagement (compelling narrative, examples, CTAs)
5. Topic Relevance (connection to marketing automation/B2B marketing)

**BE CRITICAL - USE FULL SCORING RANGE**

Return this exact JSON - no other text/formatting:
{
    "Overall Quality Score": <integer 0-100>,
    "Topic Relevance": <"On Topic" or "Tangentially Related" or "Off Topic">,
    "Brand Alignment": <"On Brand" or "Mostly on Brand" or "Needs Work" or "Not on Brand">,
    "Quality Notes": "<2-3 sentences, no line breaks>",
    "Brand Alignment Notes": "<2-3 sentences, no line breaks>"
}`, cleaned)

	return c.analyze(ctx, axis, prompt)
}

// ToneVoice scores the content's tone and voice balance.
func (c *Client) ToneVoice(ctx context.Context, cleaned string) models.AnalysisResult {
	axis := Axis{
		Name:   "tone_voice",
		System: "You are a brand voice expert analyzing content against voice guidelines.",
	}

	prompt := fmt.Sprintf(`Analyze this content's tone and voice.

<Content to analyze>
%s
</Content to analyze>

Analyze the following elements:

1. Challenger vs Supportive Balance
- Calculate the ratio of challenging content (pushing readers, questioning status quo) vs supportive content (guidance, reassurance)

2. Natural/Conversational Quality
- Check for corporate-speak, jargon, or overly complex language

3. Authentic/Approachable Quality
- Look for confidence without arrogance

4. Gender-Neutral/Inclusive Language
- Check for any exclusionary terms or phrases

Return EXACTLY this JSON structure with no additional text, markdown, or formatting:
{
    "Challenger Percentage": <integer between 0 and 100>,
    "Supportive Percentage": <integer between 0 and 100>,
    "Natural/Conversational Score": <integer between 0 and 100>,
    "Authentic/Approachable Score": <integer between 0 and 100>,
    "Gender-Neutral/Inclusive Score": <integer between 0 and 100>,
    "Tone Notes/Recommendations": "<exactly 2-3 sentences>"
}

IMPORTANT:
- Challenger and Supportive Percentages must sum to exactly 100
- All scores must be integers, not floats
- Do not use line breaks within the text fields
- Escape any quotes within text fields using \"`, cleaned)

	return c.analyze(ctx, axis, prompt)
}

// SEO evaluates SEO effectiveness using the cleaned content plus auxiliary
// page metadata (target keyword, meta description presence, heading counts).
func (c *Client) SEO(ctx context.Context, cleaned string, data models.SEOData) models.AnalysisResult {
	axis := Axis{
		Name:   "seo",
		System: "You are an expert SEO analyst evaluating content and metadata for search optimization.",
	}

	prompt := fmt.Sprintf(`Evaluate this content and metadata for SEO optimization.

<Content>
%s
</Content>

<SEO Metadata>
Target Keyword: %s
Meta Description: %s
H1 Tag: %s
H2 Tags: %d
H3 Tags: %d
</SEO Metadata>

Analyze keyword density and placement, header hierarchy, meta description
effectiveness, and related keyword opportunities.

Return EXACTLY this JSON structure with no additional text, markdown, or formatting:
{
    "Keyword Density": <number formatted to exactly 2 decimal places>,
    "Keyword Integration Score": <integer between 0 and 100>,
    "Meta Description Quality Score": <integer between 0 and 100>,
    "Recommended New Keywords": ["keyword1", "keyword2", "keyword3"],
    "SEO Notes/Recommendations": "<exactly 2-3 specific recommendations>"
}`, cleaned, data.TargetKeyword, presentOrMissing(data.MetaDescriptionPresent),
		presentOrMissing(data.H1Present), data.H2Count, data.H3Count)

	return c.analyze(ctx, axis, prompt)
}

// UseCase determines which configured use case best matches the content.
func (c *Client) UseCase(ctx context.Context, cleaned string) models.AnalysisResult {
	axis := Axis{
		Name: "use_case",
		System: "You are a content strategy specialist. Analyze content and determine " +
			"which use case best matches the content's purpose and outcomes.",
	}

	prompt := fmt.Sprintf(`Here are the possible use cases and their descriptions:

%s

Output ONLY valid JSON format with exactly these keys and no others:
{
    "use case": "exact use case name",
    "reasoning": "Two sentence justification without any line breaks or special characters",
    "next best use case": "exact use case name of the next best use case"
}

Analyze this content:

%s`, formatUseCases(c.config.UseCases), cleaned)

	return c.analyze(ctx, axis, prompt)
}

func presentOrMissing(present bool) string {
	if present {
		return "Present"
	}
	return "Missing"
}

// formatUseCases renders the configured use cases in a stable order.
func formatUseCases(useCases map[string]string) string {
	names := make([]string, 0, len(useCases))
	for name := range useCases {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %s\n", name, useCases[name])
	}
	return strings.TrimRight(b.String(), "\n")
}
