package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zombar/blogaudit/config"
	"github.com/zombar/blogaudit/models"
	"github.com/zombar/blogaudit/scrape"
)

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; environment and config file win over defaults
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded environment from .env")
	}

	cfg := config.Load()

	outputFile := flag.String("output", cfg.Paths.InputFile, "Scraped articles JSON file to write")
	urlFile := flag.String("urls", "", "File listing one article URL per line (# starts a comment)")
	contentType := flag.String("content-type", "blog", "Content-type key the articles are stored under")
	flag.Parse()

	urls := flag.Args()
	if *urlFile != "" {
		fromFile, err := readURLList(*urlFile)
		if err != nil {
			logger.Error("failed to read URL list", "path", *urlFile, "error", err)
			os.Exit(1)
		}
		urls = append(fromFile, urls...)
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: scrape [-urls file] [-output file] [url ...]")
		os.Exit(2)
	}

	scraper := scrape.New(scrape.Config{
		UserAgent: cfg.Scrape.UserAgent,
		Timeout:   time.Duration(cfg.Scrape.TimeoutSeconds) * time.Second,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	doc, err := loadDocument(*outputFile)
	if err != nil {
		logger.Error("failed to load existing output document", "path", *outputFile, "error", err)
		os.Exit(1)
	}

	var scraped []models.RawArticle
	failed := 0
	for _, u := range urls {
		if ctx.Err() != nil {
			logger.Warn("scrape canceled", "remaining", len(urls)-len(scraped)-failed)
			break
		}
		article, err := scraper.ScrapeArticle(ctx, u)
		if err != nil {
			logger.Error("failed to scrape article", "url", u, "error", err)
			failed++
			continue
		}
		scraped = append(scraped, *article)
	}

	doc.Analyses[*contentType] = mergeArticles(doc.Analyses[*contentType], scraped)

	if err := writeDocument(*outputFile, doc); err != nil {
		logger.Error("failed to write output document", "path", *outputFile, "error", err)
		os.Exit(1)
	}

	logger.Info("scrape complete",
		"path", *outputFile,
		"content_type", *contentType,
		"scraped", len(scraped),
		"failed", failed,
		"total", len(doc.Analyses[*contentType]))
}

// readURLList reads one URL per line, skipping blank lines and # comments.
func readURLList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, nil
}

// loadDocument reads an existing input document so repeated scrape runs
// accumulate articles. A missing file starts an empty document.
func loadDocument(path string) (models.InputDocument, error) {
	doc := models.InputDocument{Analyses: map[string][]models.RawArticle{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("failed to read input document: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse input document: %w", err)
	}
	if doc.Analyses == nil {
		doc.Analyses = map[string][]models.RawArticle{}
	}
	return doc, nil
}

// mergeArticles folds freshly scraped articles into the existing list: an
// article with a known URL replaces the old scrape in place, new URLs append.
func mergeArticles(existing, scraped []models.RawArticle) []models.RawArticle {
	index := make(map[string]int, len(existing))
	for i, a := range existing {
		index[a.URL] = i
	}

	for _, a := range scraped {
		if i, ok := index[a.URL]; ok {
			existing[i] = a
			continue
		}
		index[a.URL] = len(existing)
		existing = append(existing, a)
	}
	return existing
}

func writeDocument(path string, doc models.InputDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal input document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write input document: %w", err)
	}
	return nil
}
