// Package audit orchestrates the content audit pipeline: normalize scraped
// article text, run the five analysis axes, and merge everything into one
// flat record per article.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zombar/blogaudit/analysis"
	"github.com/zombar/blogaudit/content"
	"github.com/zombar/blogaudit/models"
	"github.com/zombar/blogaudit/slug"
)

// Auditor runs the per-article pipeline. Axes are invoked sequentially; the
// shared cost tracker is reset at the start of each article so the recorded
// cost is per-article.
type Auditor struct {
	client      *analysis.Client
	tracker     *analysis.CostTracker
	keywords    map[string]string
	performance map[string]models.PerformanceMetrics
	logger      *slog.Logger
}

// NewAuditor builds an auditor. The keyword and performance maps are
// optional; missing entries degrade to "Not Found" keywords and zero metrics.
func NewAuditor(client *analysis.Client, tracker *analysis.CostTracker,
	keywords map[string]string, performance map[string]models.PerformanceMetrics,
	logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{
		client:      client,
		tracker:     tracker,
		keywords:    keywords,
		performance: performance,
		logger:      logger,
	}
}

// ProcessArticle audits one article end to end and returns its merged record.
// Axis failures never abort the article; they land in the record's AxisErrors
// map with the other axes' results intact.
func (a *Auditor) ProcessArticle(ctx context.Context, article *models.RawArticle) *models.MergedRecord {
	a.tracker.Reset()

	articleURL := article.BasicInfo.URL
	if articleURL == "" {
		articleURL = article.URL
	}

	cleaned := content.Clean(article.Content)
	pronouns := content.CountPersonalPronouns(article.Content)

	targetKeyword, ok := a.keywords[articleURL]
	if !ok {
		targetKeyword = "Not Found"
	}

	articleSlug := slug.FromURL(articleURL)

	record := &models.MergedRecord{
		ID:              slug.UniqueID(articleURL),
		Title:           article.BasicInfo.Title,
		URL:             articleURL,
		Slug:            articleSlug,
		PublicationDate: formatDate(article.BasicInfo.PublicationDate),
		ModifiedDate:    formatDate(article.BasicInfo.ModifiedDate),
		ProcessedAt:     time.Now(),
		WordCount:       content.WordCount(article.Content),
		Pronouns:        pronouns,
		TargetKeyword:   targetKeyword,
		Multimedia:      summarizeMultimedia(article.MultimediaAssessment),
		Performance:     a.performance[articleSlug],
		AxisErrors:      map[string]string{},
		SEOAnalysis:     article.SEOAnalysis,
	}

	seoData := models.SEOData{
		TargetKeyword:          targetKeyword,
		MetaDescriptionPresent: article.SEOAnalysis.MetaDescription.Present,
		H1Present:              article.SEOAnalysis.Headings.H1Present,
		H2Count:                article.SEOAnalysis.Headings.H2Count,
		H3Count:                article.SEOAnalysis.Headings.H3Count,
	}

	a.runAxis(record, "categorize", a.client.Categorize(ctx, cleaned), &record.Categorization)
	a.runAxis(record, "quality_brand_fit", a.client.QualityBrandFit(ctx, cleaned), &record.Quality)
	a.runAxis(record, "tone_voice", a.client.ToneVoice(ctx, cleaned), &record.Tone)
	a.runAxis(record, "seo", a.client.SEO(ctx, cleaned, seoData), &record.SEO)
	a.runAxis(record, "use_case", a.client.UseCase(ctx, cleaned), &record.UseCase)

	record.APICost = fmt.Sprintf("$%s", a.tracker.Cost().StringFixed(4))
	record.InputTokens = a.tracker.InputTokens()
	record.OutputTokens = a.tracker.OutputTokens()

	a.logger.Info("article audited",
		"url", articleURL,
		"word_count", record.WordCount,
		"pronouns", record.Pronouns.Count,
		"axis_errors", len(record.AxisErrors),
		"cost", record.APICost)

	return record
}

// runAxis folds one axis outcome into the record: successes unmarshal into
// the typed payload, failures are recorded with the raw error message.
func (a *Auditor) runAxis(record *models.MergedRecord, axis string, result models.AnalysisResult, target any) {
	if !result.Success {
		a.logger.Error("analysis axis failed",
			"axis", axis, "url", record.URL, "error", result.Err, "raw", truncate(result.Result, 200))
		record.AxisErrors[axis] = result.Err
		return
	}
	if err := json.Unmarshal([]byte(result.Result), target); err != nil {
		a.logger.Error("analysis axis payload did not match expected shape",
			"axis", axis, "url", record.URL, "error", err)
		record.AxisErrors[axis] = fmt.Sprintf("unexpected payload shape: %v", err)
	}
}

// Succeeded reports how many of the five axes produced a usable payload.
func Succeeded(record *models.MergedRecord) int {
	return 5 - len(record.AxisErrors)
}

func summarizeMultimedia(mm models.MultimediaAssessment) models.MultimediaSummary {
	summary := models.MultimediaSummary{
		NumberOfImages:       mm.TotalImageCount,
		HeaderImageSrc:       "No Source",
		HeaderImageAlt:       "No Alt Text",
		OutdatedWidgetsCount: mm.OutdatedWidgetCount,
	}

	if mm.HeaderImage != nil {
		summary.HeaderImageWidth = mm.HeaderImage.Width
		summary.HeaderImageHeight = mm.HeaderImage.Height
		if mm.HeaderImage.Src != "" {
			summary.HeaderImageSrc = mm.HeaderImage.Src
		}
		if mm.HeaderImage.Alt != "" {
			summary.HeaderImageAlt = mm.HeaderImage.Alt
		}
	}

	if len(mm.ContentImages) > 0 {
		min := mm.ContentImages[0].Width
		for _, img := range mm.ContentImages[1:] {
			if img.Width < min {
				min = img.Width
			}
		}
		summary.MinContentImageWidth = min
	}

	return summary
}

// formatDate reduces an ISO-ish timestamp to its date part. Anything that
// does not parse renders as "No Date" rather than failing the article.
func formatDate(value string) string {
	if value == "" {
		return "No Date"
	}
	datePart, _, _ := strings.Cut(value, "T")
	if _, err := time.Parse("2006-01-02", datePart); err != nil {
		return "No Date"
	}
	return datePart
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
