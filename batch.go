package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zombar/blogaudit/db"
	"github.com/zombar/blogaudit/metrics"
	"github.com/zombar/blogaudit/models"
	"github.com/zombar/blogaudit/report"
	"github.com/zombar/blogaudit/slug"
	"github.com/zombar/blogaudit/store"
)

// BatchOptions bounds one batch run. A zero BatchSize processes everything
// from StartIndex onward.
type BatchOptions struct {
	StartIndex int
	BatchSize  int
	RunID      string // assigned when empty
}

// BatchSummary reports what one run did.
type BatchSummary struct {
	RunID     string
	Processed int
	Skipped   int
	Failed    int
	LastIndex int // index of the last article examined, -1 if none
}

// Batch wires the auditor to its persistence and reporting sinks. The store
// is the checkpoint: articles whose id it already holds are skipped, so a
// re-run resumes where the last one got to. The db archive is optional.
type Batch struct {
	auditor *Auditor
	store   *store.Store
	report  *report.Writer
	archive *db.DB
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewBatch creates a batch runner. archive may be nil; metrics may be nil.
func NewBatch(auditor *Auditor, st *store.Store, rep *report.Writer,
	archive *db.DB, m *metrics.Metrics, logger *slog.Logger) *Batch {
	if m == nil {
		m = metrics.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Batch{
		auditor: auditor,
		store:   st,
		report:  rep,
		archive: archive,
		metrics: m,
		logger:  logger,
	}
}

// Run processes one slice of the article list sequentially. Per-article and
// per-axis failures are recovered; only a report-write failure at the end is
// returned as an error, since without it the batch produced no output.
func (b *Batch) Run(ctx context.Context, articles []models.RawArticle, opts BatchOptions) (*BatchSummary, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	summary := &BatchSummary{RunID: runID, LastIndex: -1}

	start := opts.StartIndex
	if start < 0 {
		start = 0
	}
	if start >= len(articles) {
		b.logger.Warn("start index beyond article list", "start_index", start, "articles", len(articles))
		return summary, nil
	}
	end := len(articles)
	if opts.BatchSize > 0 && start+opts.BatchSize < end {
		end = start + opts.BatchSize
	}

	b.logger.Info("starting batch run",
		"run_id", runID, "start_index", start, "end_index", end, "total", len(articles))

	var completed []models.MergedRecord
	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			b.logger.Warn("batch canceled", "run_id", runID, "index", i)
			break
		}
		article := &articles[i]
		summary.LastIndex = i

		articleURL := article.BasicInfo.URL
		if articleURL == "" {
			articleURL = article.URL
		}
		id := slug.UniqueID(articleURL)

		done, err := b.store.Has(id)
		if err != nil {
			b.logger.Error("failed to consult store", "url", articleURL, "error", err)
		}
		if done {
			b.logger.Info("skipping already processed article", "index", i, "url", articleURL)
			b.metrics.RecordArticle("skipped")
			summary.Skipped++
			continue
		}

		record := b.auditor.ProcessArticle(ctx, article)
		record.RunID = runID

		for _, axis := range []string{"categorize", "quality_brand_fit", "tone_voice", "seo", "use_case"} {
			_, failed := record.AxisErrors[axis]
			b.metrics.RecordAxis(axis, !failed)
		}
		b.metrics.RecordUsage(record.InputTokens, record.OutputTokens,
			b.auditor.tracker.Cost().InexactFloat64())

		if err := b.store.Save(record.ID, *record); err != nil {
			// The record is dropped; the next run will redo this article.
			b.logger.Error("failed to persist record, dropping article result",
				"index", i, "url", articleURL, "error", err)
			b.metrics.RecordArticle("failed")
			summary.Failed++
			continue
		}

		if b.archive != nil {
			if err := b.archive.SaveMergedRecord(record); err != nil {
				b.logger.Error("failed to archive record", "url", articleURL, "error", err)
			}
		}

		b.metrics.RecordArticle("processed")
		summary.Processed++
		completed = append(completed, *record)
	}

	if len(completed) > 0 {
		if err := b.report.Append(completed); err != nil {
			return summary, fmt.Errorf("failed to write report: %w", err)
		}
	}

	b.logger.Info("batch run complete",
		"run_id", runID,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"last_index", summary.LastIndex)

	return summary, nil
}
