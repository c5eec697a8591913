package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	audit "github.com/zombar/blogaudit"
	"github.com/zombar/blogaudit/analysis"
	"github.com/zombar/blogaudit/config"
	"github.com/zombar/blogaudit/db"
	"github.com/zombar/blogaudit/metrics"
	"github.com/zombar/blogaudit/models"
	"github.com/zombar/blogaudit/report"
	"github.com/zombar/blogaudit/storage"
	"github.com/zombar/blogaudit/store"
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

	inputFile := flag.String("input", cfg.Paths.InputFile, "Scraped articles JSON file")
	storeFile := flag.String("store", cfg.Paths.StoreFile, "Merged-results checkpoint file")
	reportFile := flag.String("report", cfg.Paths.ReportFile, "Spreadsheet report file")
	startIndex := flag.Int("start-index", cfg.Batch.StartIndex, "Index of the first article to process")
	batchSize := flag.Int("batch-size", cfg.Batch.BatchSize, "Number of articles to process (0 = all remaining)")
	contentType := flag.String("content-type", "blog", "Content-type key to read from the input document")
	archiveRun := flag.Bool("archive", true, "Archive the report and store to the artifact directory after the run")
	flag.Parse()

	logger.Info("content audit initializing", "version", "1.0.0")

	// A missing API credential is the only fatal startup error.
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	inputRate, err := decimal.NewFromString(cfg.Analysis.InputRate)
	if err != nil {
		logger.Warn("invalid input rate, using default", "provided", cfg.Analysis.InputRate, "error", err)
		inputRate = decimal.RequireFromString("3.00")
	}
	outputRate, err := decimal.NewFromString(cfg.Analysis.OutputRate)
	if err != nil {
		logger.Warn("invalid output rate, using default", "provided", cfg.Analysis.OutputRate, "error", err)
		outputRate = decimal.RequireFromString("15.00")
	}
	tracker := analysis.NewCostTracker(inputRate, outputRate)

	m := metrics.New()
	if cfg.Metrics.ListenAddr != "" {
		go serveMetrics(cfg.Metrics.ListenAddr, m, logger)
	}

	clientCfg := cfg.AnalysisClientConfig()
	clientCfg.OnRetry = m.AnalysisRetries.Inc
	client, err := analysis.NewClient(clientCfg, tracker, logger)
	if err != nil {
		logger.Error("failed to create analysis client", "error", err)
		os.Exit(1)
	}

	articles, err := loadArticles(*inputFile, *contentType)
	if err != nil {
		logger.Error("failed to load input document", "path", *inputFile, "error", err)
		os.Exit(1)
	}
	logger.Info("input loaded", "path", *inputFile, "content_type", *contentType, "articles", len(articles))

	keywords := map[string]string{}
	if cfg.Paths.KeywordFile != "" {
		keywords, err = report.LoadKeywords(cfg.Paths.KeywordFile)
		if err != nil {
			logger.Warn("failed to load keyword workbook, continuing without target keywords",
				"path", cfg.Paths.KeywordFile, "error", err)
			keywords = map[string]string{}
		}
	}

	performance := map[string]models.PerformanceMetrics{}
	if cfg.Paths.PerformanceFile != "" {
		performance, err = report.LoadPerformance(cfg.Paths.PerformanceFile)
		if err != nil {
			logger.Warn("failed to load performance workbook, continuing without analytics",
				"path", cfg.Paths.PerformanceFile, "error", err)
			performance = map[string]models.PerformanceMetrics{}
		}
	}

	st, err := store.New(*storeFile, logger)
	if err != nil {
		logger.Error("failed to create store", "path", *storeFile, "error", err)
		os.Exit(1)
	}

	var archive *db.DB
	if cfg.Database.DSN != "" {
		archive, err = db.New(db.Config{DSN: cfg.Database.DSN})
		if err != nil {
			logger.Warn("failed to connect database archive, continuing without it", "error", err)
		} else {
			defer archive.Close()
			logger.Info("database archive enabled")
		}
	}

	auditor := audit.NewAuditor(client, tracker, keywords, performance, logger)
	batch := audit.NewBatch(auditor, st, report.NewWriter(*reportFile, nil, logger), archive, m, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := batch.Run(ctx, articles, audit.BatchOptions{
		StartIndex: *startIndex,
		BatchSize:  *batchSize,
	})
	if err != nil {
		logger.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	if *archiveRun && summary.Processed > 0 {
		archiveArtifacts(ctx, cfg, *reportFile, *storeFile, logger)
	}

	logger.Info("audit complete",
		"run_id", summary.RunID,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
}

// loadArticles reads the input document and returns the article list for one
// content type.
func loadArticles(path, contentType string) ([]models.RawArticle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	var doc models.InputDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}
	articles, ok := doc.Analyses[contentType]
	if !ok {
		return nil, fmt.Errorf("content type %q not found in input document", contentType)
	}
	return articles, nil
}

func serveMetrics(addr string, m *metrics.Metrics, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	logger.Info("metrics listener starting", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics listener stopped", "error", err)
	}
}

// archiveArtifacts copies the finished report and store into the local
// artifact archive and, when configured, uploads them to object storage.
func archiveArtifacts(ctx context.Context, cfg config.Config, reportFile, storeFile string, logger *slog.Logger) {
	local, err := storage.New(storage.Config{BasePath: cfg.Paths.ArtifactDir})
	if err != nil {
		logger.Warn("failed to open artifact archive", "error", err)
		return
	}

	reportPath, err := local.ArchiveFile(storage.KindReport, reportFile)
	if err != nil {
		logger.Warn("failed to archive report", "error", err)
	}
	snapshotPath, err := local.ArchiveFile(storage.KindSnapshot, storeFile)
	if err != nil {
		logger.Warn("failed to archive store snapshot", "error", err)
	}
	logger.Info("artifacts archived", "report", reportPath, "snapshot", snapshotPath)

	if cfg.S3.Bucket == "" {
		return
	}
	remote, err := storage.NewS3Storage(ctx, storage.S3Config{
		Endpoint:        cfg.S3.Endpoint,
		Region:          cfg.S3.Region,
		Bucket:          cfg.S3.Bucket,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		UsePathStyle:    cfg.S3.UsePathStyle,
	})
	if err != nil {
		logger.Warn("failed to create S3 storage, skipping upload", "error", err)
		return
	}
	for _, relPath := range []struct {
		kind storage.Kind
		path string
	}{
		{storage.KindReport, reportPath},
		{storage.KindSnapshot, snapshotPath},
	} {
		if relPath.path == "" {
			continue
		}
		data, err := local.ReadArtifact(relPath.path)
		if err != nil {
			logger.Warn("failed to read artifact for upload", "path", relPath.path, "error", err)
			continue
		}
		key, err := remote.SaveArtifact(ctx, relPath.kind, filepath.Base(relPath.path), data)
		if err != nil {
			logger.Warn("failed to upload artifact", "path", relPath.path, "error", err)
			continue
		}
		logger.Info("artifact uploaded", "key", key)
	}
}
