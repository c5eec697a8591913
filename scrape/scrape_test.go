package scrape

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
<title>Email Tips That Work</title>
<meta name="description" content="Five email tips.">
<meta property="article:published_time" content="2024-01-15T09:00:00Z">
<meta property="article:modified_time" content="2024-02-01T10:00:00Z">
</head>
<body>
<div class="elementor-widget-theme-post-featured-image">
  <img src="/header.png" alt="Hero image">
</div>
<div class="elementor-widget-theme-post-content">
  <h2>Getting Started</h2>
  <p>Email marketing still works.</p>
  <ul><li>Keep it short</li></ul>
  <img src="/inline.png" alt="Chart" width="640" height="480">
  <img src="/logo-small.png" alt="Company logo">
  <div class="wp-block-buttons">
    <a class="wp-block-button__link" href="/ebook">Download our ebook</a>
  </div>
  <h3>Details</h3>
  <p>More text here.</p>
</div>
</body>
</html>`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1200, 630))); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	headerImage := buf.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("/post", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage))
	})
	mux.HandleFunc("/header.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(headerImage)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestScrapeArticle(t *testing.T) {
	server := testServer(t)
	s := New(DefaultConfig(), nil)

	article, err := s.ScrapeArticle(context.Background(), server.URL+"/post")
	if err != nil {
		t.Fatalf("ScrapeArticle() error = %v", err)
	}

	if article.BasicInfo.Title != "Email Tips That Work" {
		t.Errorf("Title = %q", article.BasicInfo.Title)
	}
	if article.BasicInfo.PublicationDate != "2024-01-15T09:00:00Z" {
		t.Errorf("PublicationDate = %q", article.BasicInfo.PublicationDate)
	}
	if article.BasicInfo.ModifiedDate != "2024-02-01T10:00:00Z" {
		t.Errorf("ModifiedDate = %q", article.BasicInfo.ModifiedDate)
	}

	if !article.SEOAnalysis.MetaDescription.Present {
		t.Error("expected meta description present")
	}
	if article.SEOAnalysis.Headings.H2Count != 1 || article.SEOAnalysis.Headings.H3Count != 1 {
		t.Errorf("headings = %+v", article.SEOAnalysis.Headings)
	}
	if article.SEOAnalysis.Headings.H1Present {
		t.Error("H1Present = true, want false")
	}
}

func TestScrapeArticleContentMarkers(t *testing.T) {
	server := testServer(t)
	s := New(DefaultConfig(), nil)

	article, err := s.ScrapeArticle(context.Background(), server.URL+"/post")
	if err != nil {
		t.Fatalf("ScrapeArticle() error = %v", err)
	}

	if !strings.Contains(article.Content, "H2: Getting Started") {
		t.Errorf("content missing H2 marker:\n%s", article.Content)
	}
	if !strings.Contains(article.Content, "[CONTENT IMAGE: Chart]") {
		t.Errorf("content missing image marker:\n%s", article.Content)
	}
	if !strings.Contains(article.Content, "Source: /inline.png") {
		t.Errorf("content missing source line:\n%s", article.Content)
	}
	if !strings.Contains(article.Content, "- Keep it short") {
		t.Errorf("content missing list item:\n%s", article.Content)
	}
	if strings.Contains(article.Content, "logo") {
		t.Errorf("logo image leaked into content:\n%s", article.Content)
	}
}

func TestScrapeArticleMultimedia(t *testing.T) {
	server := testServer(t)
	s := New(DefaultConfig(), nil)

	article, err := s.ScrapeArticle(context.Background(), server.URL+"/post")
	if err != nil {
		t.Fatalf("ScrapeArticle() error = %v", err)
	}
	mm := article.MultimediaAssessment

	if mm.HeaderImage == nil {
		t.Fatal("expected header image")
	}
	if mm.HeaderImage.Alt != "Hero image" {
		t.Errorf("header alt = %q", mm.HeaderImage.Alt)
	}
	// Dimensions come from the probe since the markup has no width/height.
	if mm.HeaderImage.Width != 1200 || mm.HeaderImage.Height != 630 {
		t.Errorf("header dimensions = %dx%d, want 1200x630", mm.HeaderImage.Width, mm.HeaderImage.Height)
	}

	if len(mm.ContentImages) != 1 {
		t.Fatalf("content images = %d, want 1 (logo excluded)", len(mm.ContentImages))
	}
	if mm.ContentImages[0].Width != 640 {
		t.Errorf("content image width = %d, want 640", mm.ContentImages[0].Width)
	}
	if mm.TotalImageCount != 2 {
		t.Errorf("TotalImageCount = %d, want 2", mm.TotalImageCount)
	}
	if mm.OutdatedWidgetCount != 1 {
		t.Errorf("OutdatedWidgetCount = %d, want 1", mm.OutdatedWidgetCount)
	}
}

func TestScrapeArticleRejectsBadScheme(t *testing.T) {
	s := New(DefaultConfig(), nil)
	if _, err := s.ScrapeArticle(context.Background(), "ftp://example.com/post"); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

func TestScrapeArticleHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	s := New(DefaultConfig(), nil)
	if _, err := s.ScrapeArticle(context.Background(), server.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}
