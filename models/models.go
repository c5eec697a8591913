package models

import "time"

// RawArticle is one scraped blog article as produced by the scraper (or read
// from a previously scraped JSON document). It is immutable once handed to
// the pipeline.
type RawArticle struct {
	URL                  string               `json:"url"`
	AnalysisTimestamp    string               `json:"analysis_timestamp,omitempty"`
	BasicInfo            BasicInfo            `json:"basic_info"`
	Content              string               `json:"content"`
	SEOAnalysis          SEOAnalysis          `json:"seo_analysis"`
	MultimediaAssessment MultimediaAssessment `json:"multimedia_assessment"`
}

// BasicInfo carries page-level metadata extracted from the article head.
type BasicInfo struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	PublicationDate string `json:"publication_date,omitempty"`
	ModifiedDate    string `json:"modified_date,omitempty"`
}

// SEOAnalysis summarizes the on-page SEO signals the analysis axes consume.
type SEOAnalysis struct {
	MetaDescription MetaDescription `json:"meta_description"`
	Headings        Headings        `json:"headings"`
}

// MetaDescription records presence and content of the meta description tag.
type MetaDescription struct {
	Present bool   `json:"present"`
	Content string `json:"content,omitempty"`
}

// Headings counts heading tags on the page.
type Headings struct {
	H1Present bool `json:"h1_present"`
	H2Count   int  `json:"h2_count"`
	H3Count   int  `json:"h3_count"`
}

// MultimediaAssessment describes the images and embedded widgets on a page.
type MultimediaAssessment struct {
	TotalImageCount     int         `json:"total_image_count"`
	HeaderImage         *ImageInfo  `json:"header_image,omitempty"`
	ContentImages       []ImageInfo `json:"content_images,omitempty"`
	OutdatedWidgetCount int         `json:"outdated_widget_count"`
}

// ImageInfo contains information about a single page image.
type ImageInfo struct {
	Src    string `json:"src"`
	Alt    string `json:"alt,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// InputDocument is the top-level shape of the scraped-articles JSON file:
// a mapping from content-type name (e.g. "blog") to articles.
type InputDocument struct {
	Analyses map[string][]RawArticle `json:"analyses"`
}

// PronounReport is the result of scanning raw article text for first-person
// pronouns outside quoted speech.
type PronounReport struct {
	Count                 int      `json:"count"`
	FoundPronouns         []string `json:"found_pronouns"`
	QuotedRegions         [][2]int `json:"quoted_regions"`
	SentencesWithPronouns []string `json:"sentences_with_pronouns"`
	Flag                  bool     `json:"flag"`
}

// AnalysisResult is the terminal outcome of one analysis axis call. A failed
// call produces a failure result carrying the raw offending reply; it is
// never mutated afterwards.
type AnalysisResult struct {
	Success bool   `json:"success"`
	Result  string `json:"result,omitempty"`
	Err     string `json:"error,omitempty"`
}

// Usage is the token usage reported by the analysis service for one call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// PerformanceMetrics holds externally supplied analytics for one article,
// matched by URL slug.
type PerformanceMetrics struct {
	TotalViews        int     `json:"total_views"`
	TotalUsers        int     `json:"total_users"`
	TotalSessions     int     `json:"total_sessions"`
	EngagementRate    float64 `json:"engagement_rate"`
	AverageTimeOnPage float64 `json:"average_time_on_page"`
	BounceRate        float64 `json:"bounce_rate"`
}

// MergedRecord is the flat per-article row destined for the report: basic
// info, normalized metrics, parsed axis payloads and performance metrics.
// Built once per article and keyed by the unique id derived from its URL;
// a re-run overwrites the whole record.
type MergedRecord struct {
	ID              string             `json:"id"`
	RunID           string             `json:"run_id,omitempty"`
	Title           string             `json:"title"`
	URL             string             `json:"url"`
	Slug            string             `json:"slug"`
	PublicationDate string             `json:"publication_date"`
	ModifiedDate    string             `json:"modified_date"`
	ProcessedAt     time.Time          `json:"processed_timestamp"`
	WordCount       int                `json:"word_count"`
	Pronouns        PronounReport      `json:"pronouns"`
	TargetKeyword   string             `json:"target_keyword"`
	Quality         QualityBrandFit    `json:"quality"`
	Tone            ToneVoice          `json:"tone"`
	SEO             SEOResult          `json:"seo"`
	Categorization  Categorization     `json:"categorization"`
	UseCase         UseCaseResult      `json:"use_case"`
	Multimedia      MultimediaSummary  `json:"multimedia"`
	Performance     PerformanceMetrics `json:"performance"`
	AxisErrors      map[string]string  `json:"axis_errors,omitempty"`
	APICost         string             `json:"api_cost"`
	InputTokens     int                `json:"input_tokens"`
	OutputTokens    int                `json:"output_tokens"`
	SEOAnalysis     SEOAnalysis        `json:"seo_analysis"`
}

// QualityBrandFit is the parsed quality/brand axis payload.
type QualityBrandFit struct {
	OverallQualityScore int    `json:"Overall Quality Score"`
	TopicRelevance      string `json:"Topic Relevance"`
	BrandAlignment      string `json:"Brand Alignment"`
	QualityNotes        string `json:"Quality Notes"`
	BrandAlignmentNotes string `json:"Brand Alignment Notes"`
}

// ToneVoice is the parsed tone/voice axis payload.
type ToneVoice struct {
	ChallengerPercentage int    `json:"Challenger Percentage"`
	SupportivePercentage int    `json:"Supportive Percentage"`
	NaturalScore         int    `json:"Natural/Conversational Score"`
	AuthenticScore       int    `json:"Authentic/Approachable Score"`
	InclusiveScore       int    `json:"Gender-Neutral/Inclusive Score"`
	ToneNotes            string `json:"Tone Notes/Recommendations"`
}

// SEOResult is the parsed SEO axis payload.
type SEOResult struct {
	KeywordDensity      float64  `json:"Keyword Density"`
	KeywordIntegration  int      `json:"Keyword Integration Score"`
	MetaQualityScore    int      `json:"Meta Description Quality Score"`
	RecommendedKeywords []string `json:"Recommended New Keywords"`
	SEONotes            string   `json:"SEO Notes/Recommendations"`
}

// Categorization is the parsed categorization axis payload.
type Categorization struct {
	Category  string `json:"category"`
	Reasoning string `json:"reasoning"`
}

// UseCaseResult is the parsed use-case axis payload.
type UseCaseResult struct {
	UseCase   string `json:"use case"`
	Reasoning string `json:"reasoning"`
	NextBest  string `json:"next best use case,omitempty"`
}

// MultimediaSummary is the flattened multimedia data carried into the report.
type MultimediaSummary struct {
	NumberOfImages       int    `json:"number_of_images"`
	HeaderImageWidth     int    `json:"header_image_width"`
	HeaderImageHeight    int    `json:"header_image_height"`
	HeaderImageSrc       string `json:"header_image_src"`
	HeaderImageAlt       string `json:"header_image_alt"`
	MinContentImageWidth int    `json:"min_content_image_width"`
	OutdatedWidgetsCount int    `json:"outdated_widgets_count"`
}

// SEOData is the auxiliary metadata handed to the SEO analysis axis alongside
// the cleaned content.
type SEOData struct {
	TargetKeyword          string
	MetaDescriptionPresent bool
	H1Present              bool
	H2Count                int
	H3Count                int
}
