// Package scrape fetches blog pages and produces the raw article records the
// audit pipeline consumes. Body text carries "H2:" heading markers and
// "[CONTENT IMAGE: ...]" markers in the format the content normalizer strips.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/html"

	"github.com/zombar/blogaudit/models"
)

// Config contains scraper configuration
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// DefaultConfig returns default scraper configuration
func DefaultConfig() Config {
	return Config{
		UserAgent: "blogaudit/1.0",
		Timeout:   30 * time.Second,
	}
}

// Scraper fetches and parses blog pages.
type Scraper struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a new Scraper instance
func New(cfg Config, logger *slog.Logger) *Scraper {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		config: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// ScrapeArticle fetches one page and extracts everything the audit needs:
// basic info, marked-up body text, SEO signals and the multimedia assessment.
func (s *Scraper) ScrapeArticle(ctx context.Context, targetURL string) (*models.RawArticle, error) {
	parsedURL, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s", parsedURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	article := &models.RawArticle{
		URL:               targetURL,
		AnalysisTimestamp: time.Now().Format(time.RFC3339),
		BasicInfo:         extractBasicInfo(doc, targetURL),
		Content:           extractContent(doc),
		SEOAnalysis:       extractSEOAnalysis(doc),
	}
	article.MultimediaAssessment = extractMultimedia(doc)

	s.probeImageDimensions(ctx, targetURL, &article.MultimediaAssessment)

	s.logger.Info("scraped article",
		"url", targetURL,
		"title", article.BasicInfo.Title,
		"images", article.MultimediaAssessment.TotalImageCount)

	return article, nil
}

func extractBasicInfo(doc *html.Node, targetURL string) models.BasicInfo {
	info := models.BasicInfo{
		URL:             targetURL,
		Title:           findFirstText(doc, "title"),
		PublicationDate: metaContent(doc, "article:published_time"),
		ModifiedDate:    metaContent(doc, "article:modified_time"),
	}
	if info.Title == "" {
		info.Title = metaContent(doc, "og:title")
	}
	if info.Title == "" {
		info.Title = targetURL
	}
	return info
}

func extractSEOAnalysis(doc *html.Node) models.SEOAnalysis {
	description := ""
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" && attr(n, "name") == "description" {
			description = attr(n, "content")
		}
	})

	var h1, h2, h3 int
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "h1":
			h1++
		case "h2":
			h2++
		case "h3":
			h3++
		}
	})

	return models.SEOAnalysis{
		MetaDescription: models.MetaDescription{
			Present: description != "",
			Content: description,
		},
		Headings: models.Headings{
			H1Present: h1 > 0,
			H2Count:   h2,
			H3Count:   h3,
		},
	}
}

// extractContent walks the main content container and renders headings,
// paragraphs, list items and images into the pipeline's text format.
func extractContent(doc *html.Node) string {
	container := findContentContainer(doc)
	if container == nil {
		return ""
	}

	var parts []string
	walk(container, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "h1", "h2", "h3", "h4":
			if text := nodeText(n); text != "" {
				parts = append(parts, fmt.Sprintf("\n%s: %s", strings.ToUpper(n.Data), text))
			}
		case "p":
			if text := nodeText(n); text != "" {
				parts = append(parts, text)
			}
		case "li":
			if text := nodeText(n); text != "" {
				parts = append(parts, "- "+text)
			}
		case "img":
			if isLogoImage(n) {
				return
			}
			src := attr(n, "src")
			alt := attr(n, "alt")
			if alt == "" {
				alt = "No alt text provided"
			}
			if src != "" {
				parts = append(parts, fmt.Sprintf("\n[CONTENT IMAGE: %s]\nSource: %s\n", alt, src))
			}
		}
	})

	return strings.Join(parts, "\n\n")
}

// findContentContainer tries known content containers in order of preference
// before falling back to article/main/body.
func findContentContainer(doc *html.Node) *html.Node {
	selectors := []func(*html.Node) bool{
		func(n *html.Node) bool { return n.Data == "div" && hasClass(n, "elementor-widget-theme-post-content") },
		func(n *html.Node) bool { return n.Data == "div" && hasClass(n, "article-body") },
		func(n *html.Node) bool { return n.Data == "article" },
		func(n *html.Node) bool { return n.Data == "main" },
		func(n *html.Node) bool { return n.Data == "body" },
	}
	for _, match := range selectors {
		if found := findElement(doc, match); found != nil {
			return found
		}
	}
	return nil
}

func extractMultimedia(doc *html.Node) models.MultimediaAssessment {
	assessment := models.MultimediaAssessment{
		OutdatedWidgetCount: countOutdatedWidgets(doc),
	}

	// Featured image lives outside the content container on blog templates.
	if featured := findElement(doc, func(n *html.Node) bool {
		return n.Data == "div" && hasClass(n, "elementor-widget-theme-post-featured-image")
	}); featured != nil {
		if img := findElement(featured, func(n *html.Node) bool { return n.Data == "img" }); img != nil && !isLogoImage(img) {
			assessment.HeaderImage = &models.ImageInfo{
				Src:    attr(img, "src"),
				Alt:    attr(img, "alt"),
				Width:  attrInt(img, "width"),
				Height: attrInt(img, "height"),
			}
		}
	}

	container := findContentContainer(doc)
	if container != nil {
		seen := map[string]bool{}
		walk(container, func(n *html.Node) {
			if n.Type != html.ElementNode || n.Data != "img" || isLogoImage(n) {
				return
			}
			src := attr(n, "src")
			if src == "" || seen[src] {
				return
			}
			if assessment.HeaderImage != nil && assessment.HeaderImage.Src == src {
				return
			}
			seen[src] = true
			assessment.ContentImages = append(assessment.ContentImages, models.ImageInfo{
				Src:    src,
				Alt:    attr(n, "alt"),
				Width:  attrInt(n, "width"),
				Height: attrInt(n, "height"),
			})
		})
	}

	assessment.TotalImageCount = len(assessment.ContentImages)
	if assessment.HeaderImage != nil {
		assessment.TotalImageCount++
	}
	return assessment
}

// countOutdatedWidgets counts legacy download/ebook button blocks that should
// have been migrated to the current CTA component.
func countOutdatedWidgets(doc *html.Node) int {
	count := 0
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" || !hasClass(n, "wp-block-button__link") {
			return
		}
		text := strings.ToLower(nodeText(n))
		if strings.Contains(text, "download") || strings.Contains(text, "ebook") {
			count++
		}
	})
	return count
}

func isLogoImage(n *html.Node) bool {
	src := strings.ToLower(attr(n, "src"))
	alt := strings.ToLower(attr(n, "alt"))
	return strings.Contains(src, "logo") || strings.Contains(alt, "logo")
}

// walk calls fn for every node in depth-first order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findFirstText(doc *html.Node, tag string) string {
	if el := findElement(doc, func(n *html.Node) bool { return n.Data == tag }); el != nil {
		return nodeText(el)
	}
	return ""
}

func metaContent(doc *html.Node, property string) string {
	content := ""
	walk(doc, func(n *html.Node) {
		if content != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" && attr(n, "property") == property {
			content = attr(n, "content")
		}
	})
	return content
}

// nodeText collects the text content of a node's descendants with single
// spaces between fragments.
func nodeText(n *html.Node) string {
	var parts []string
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			if t := strings.TrimSpace(c.Data); t != "" {
				parts = append(parts, t)
			}
		}
	})
	return strings.Join(parts, " ")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func attrInt(n *html.Node, name string) int {
	v, err := strconv.Atoi(attr(n, name))
	if err != nil {
		return 0
	}
	return v
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
