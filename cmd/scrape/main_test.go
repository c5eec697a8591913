package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/zombar/blogaudit/models"
	"github.com/zombar/blogaudit/scrape"
)

func TestReadURLList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	body := `# production blog posts
https://example.com/blog/one/

https://example.com/blog/two/
  # indented comment
https://example.com/blog/three/
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing URL list: %v", err)
	}

	urls, err := readURLList(path)
	if err != nil {
		t.Fatalf("readURLList: %v", err)
	}
	want := []string{
		"https://example.com/blog/one/",
		"https://example.com/blog/two/",
		"https://example.com/blog/three/",
	}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("readURLList = %v, want %v", urls, want)
	}
}

func TestLoadDocumentMissingFile(t *testing.T) {
	doc, err := loadDocument(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("loadDocument: %v", err)
	}
	if doc.Analyses == nil || len(doc.Analyses) != 0 {
		t.Errorf("Analyses = %v, want empty map", doc.Analyses)
	}
}

func TestMergeArticlesReplacesByURL(t *testing.T) {
	existing := []models.RawArticle{
		{URL: "https://example.com/blog/one/", Content: "old one"},
		{URL: "https://example.com/blog/two/", Content: "two"},
	}
	scraped := []models.RawArticle{
		{URL: "https://example.com/blog/one/", Content: "new one"},
		{URL: "https://example.com/blog/three/", Content: "three"},
	}

	merged := mergeArticles(existing, scraped)

	if len(merged) != 3 {
		t.Fatalf("len(merged) = %d, want 3", len(merged))
	}
	if merged[0].Content != "new one" {
		t.Errorf("merged[0].Content = %q, want replacement in place", merged[0].Content)
	}
	if merged[1].Content != "two" || merged[2].Content != "three" {
		t.Errorf("merged order wrong: %v", merged)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraped_articles.json")
	doc := models.InputDocument{Analyses: map[string][]models.RawArticle{
		"blog": {{URL: "https://example.com/blog/one/", Content: "body"}},
	}}

	if err := writeDocument(path, doc); err != nil {
		t.Fatalf("writeDocument: %v", err)
	}
	got, err := loadDocument(path)
	if err != nil {
		t.Fatalf("loadDocument: %v", err)
	}
	if len(got.Analyses["blog"]) != 1 || got.Analyses["blog"][0].URL != doc.Analyses["blog"][0].URL {
		t.Errorf("round trip mismatch: %+v", got.Analyses)
	}
}

func TestScrapeIntoDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Hello Post</title></head>` +
			`<body><article><p>Hello world.</p></article></body></html>`))
	}))
	defer server.Close()

	scraper := scrape.New(scrape.DefaultConfig(), nil)
	article, err := scraper.ScrapeArticle(context.Background(), server.URL+"/blog/hello/")
	if err != nil {
		t.Fatalf("ScrapeArticle: %v", err)
	}

	path := filepath.Join(t.TempDir(), "scraped_articles.json")
	doc, err := loadDocument(path)
	if err != nil {
		t.Fatalf("loadDocument: %v", err)
	}
	doc.Analyses["blog"] = mergeArticles(doc.Analyses["blog"], []models.RawArticle{*article})
	if err := writeDocument(path, doc); err != nil {
		t.Fatalf("writeDocument: %v", err)
	}

	got, err := loadDocument(path)
	if err != nil {
		t.Fatalf("loadDocument after write: %v", err)
	}
	articles := got.Analyses["blog"]
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}
	if articles[0].BasicInfo.Title != "Hello Post" {
		t.Errorf("Title = %q, want Hello Post", articles[0].BasicInfo.Title)
	}
	if articles[0].Content == "" {
		t.Error("Content is empty after round trip")
	}
}
