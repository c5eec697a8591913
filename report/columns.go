package report

import (
	"fmt"
	"strings"

	"github.com/zombar/blogaudit/models"
)

// Column is one report field: a header label plus the accessor that pulls its
// value out of a merged record.
type Column struct {
	Name  string
	Value func(r *models.MergedRecord) any
}

// Section is a group of columns sharing one merged group-header cell.
type Section struct {
	Name    string
	Columns []Column
}

// DefaultSections returns the report layout: section groups in fixed order,
// each with its field columns. The layout is data so deployments can reorder
// or drop columns without touching the writer.
func DefaultSections() []Section {
	return []Section{
		{
			Name: "Title",
			Columns: []Column{
				{"Title", func(r *models.MergedRecord) any { return r.Title }},
			},
		},
		{
			Name: "Basic Information",
			Columns: []Column{
				{"URL", func(r *models.MergedRecord) any { return r.URL }},
				{"Slug", func(r *models.MergedRecord) any { return r.Slug }},
				{"Publication Date", func(r *models.MergedRecord) any { return r.PublicationDate }},
				{"Modified Date", func(r *models.MergedRecord) any { return r.ModifiedDate }},
				{"Word Count", func(r *models.MergedRecord) any { return r.WordCount }},
			},
		},
		{
			Name: "Quality & Brand Fit",
			Columns: []Column{
				{"Overall Quality Score", func(r *models.MergedRecord) any { return r.Quality.OverallQualityScore }},
				{"Topic Relevance", func(r *models.MergedRecord) any { return r.Quality.TopicRelevance }},
				{"Brand Alignment", func(r *models.MergedRecord) any { return r.Quality.BrandAlignment }},
				{"Quality Notes/Recommendations", func(r *models.MergedRecord) any { return r.Quality.QualityNotes }},
				{"Brand Alignment Notes", func(r *models.MergedRecord) any { return r.Quality.BrandAlignmentNotes }},
			},
		},
		{
			Name: "Tone & Voice",
			Columns: []Column{
				{"Challenger Percentage", func(r *models.MergedRecord) any { return fmt.Sprintf("%d%%", r.Tone.ChallengerPercentage) }},
				{"Supportive Percentage", func(r *models.MergedRecord) any { return fmt.Sprintf("%d%%", r.Tone.SupportivePercentage) }},
				{"Natural/Conversational Score", func(r *models.MergedRecord) any { return r.Tone.NaturalScore }},
				{"Authentic/Approachable Score", func(r *models.MergedRecord) any { return r.Tone.AuthenticScore }},
				{"Gender-Neutral/Inclusive Score", func(r *models.MergedRecord) any { return r.Tone.InclusiveScore }},
				{"Tone Notes/Recommendations", func(r *models.MergedRecord) any { return r.Tone.ToneNotes }},
				{"Personal Pronoun Count", func(r *models.MergedRecord) any { return r.Pronouns.Count }},
			},
		},
		{
			Name: "SEO Analysis",
			Columns: []Column{
				{"Current Target Keyword", func(r *models.MergedRecord) any { return r.TargetKeyword }},
				{"Keyword Density", func(r *models.MergedRecord) any { return fmt.Sprintf("%.2f%%", r.SEO.KeywordDensity) }},
				{"Keyword Integration Score", func(r *models.MergedRecord) any { return r.SEO.KeywordIntegration }},
				{"Meta Description Present", func(r *models.MergedRecord) any { return yesNo(r.SEOAnalysis.MetaDescription.Present) }},
				{"Meta Description Quality Score", func(r *models.MergedRecord) any { return r.SEO.MetaQualityScore }},
				{"H1 Tag Present", func(r *models.MergedRecord) any { return yesNo(r.SEOAnalysis.Headings.H1Present) }},
				{"H2 Tags", func(r *models.MergedRecord) any { return r.SEOAnalysis.Headings.H2Count }},
				{"H3 Tags", func(r *models.MergedRecord) any { return r.SEOAnalysis.Headings.H3Count }},
				{"Recommended New Keywords", func(r *models.MergedRecord) any { return joinKeywords(r.SEO.RecommendedKeywords) }},
				{"SEO Notes/Recommendations", func(r *models.MergedRecord) any { return r.SEO.SEONotes }},
			},
		},
		{
			Name: "Multimedia Assessment",
			Columns: []Column{
				{"Number of Images", func(r *models.MergedRecord) any { return r.Multimedia.NumberOfImages }},
				{"Header Image Width", func(r *models.MergedRecord) any { return r.Multimedia.HeaderImageWidth }},
				{"Header Image Height", func(r *models.MergedRecord) any { return r.Multimedia.HeaderImageHeight }},
				{"Header Image Src", func(r *models.MergedRecord) any { return r.Multimedia.HeaderImageSrc }},
				{"Header Image Alt", func(r *models.MergedRecord) any { return r.Multimedia.HeaderImageAlt }},
				{"Minimum Content Image Width", func(r *models.MergedRecord) any { return r.Multimedia.MinContentImageWidth }},
				{"Outdated Widgets Count", func(r *models.MergedRecord) any { return r.Multimedia.OutdatedWidgetsCount }},
			},
		},
		{
			Name: "Content Categorization",
			Columns: []Column{
				{"Category", func(r *models.MergedRecord) any { return r.Categorization.Category }},
				{"Category Reasoning", func(r *models.MergedRecord) any { return r.Categorization.Reasoning }},
				{"Use Case", func(r *models.MergedRecord) any { return r.UseCase.UseCase }},
				{"Use Case Reasoning", func(r *models.MergedRecord) any { return r.UseCase.Reasoning }},
				{"Next Best Use Case", func(r *models.MergedRecord) any { return r.UseCase.NextBest }},
				{"Analysis Errors", func(r *models.MergedRecord) any { return formatAxisErrors(r.AxisErrors) }},
			},
		},
		{
			Name: "Performance Metrics",
			Columns: []Column{
				{"Total Views", func(r *models.MergedRecord) any { return r.Performance.TotalViews }},
				{"Total Users", func(r *models.MergedRecord) any { return r.Performance.TotalUsers }},
				{"Total Sessions", func(r *models.MergedRecord) any { return r.Performance.TotalSessions }},
				{"Engagement Rate", func(r *models.MergedRecord) any { return r.Performance.EngagementRate }},
				{"Average Time on Page", func(r *models.MergedRecord) any { return r.Performance.AverageTimeOnPage }},
				{"Bounce Rate", func(r *models.MergedRecord) any { return r.Performance.BounceRate }},
			},
		},
		{
			Name: "Cost Analysis",
			Columns: []Column{
				{"API Cost", func(r *models.MergedRecord) any { return costValue(r.APICost) }},
			},
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func joinKeywords(keywords []string) string {
	if len(keywords) == 0 {
		return "None"
	}
	return strings.Join(keywords, " | ")
}

// formatAxisErrors renders the per-axis error map as "axis: message" lines in
// a stable order. Empty map renders as an empty cell.
func formatAxisErrors(errs map[string]string) string {
	if len(errs) == 0 {
		return ""
	}
	axes := []string{"categorize", "quality_brand_fit", "tone_voice", "seo", "use_case"}
	var parts []string
	for _, axis := range axes {
		if msg, ok := errs[axis]; ok {
			parts = append(parts, axis+": "+msg)
		}
	}
	for axis, msg := range errs {
		known := false
		for _, a := range axes {
			if axis == a {
				known = true
				break
			}
		}
		if !known {
			parts = append(parts, axis+": "+msg)
		}
	}
	return strings.Join(parts, "\n")
}
