package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordArticle(t *testing.T) {
	m := New()
	m.RecordArticle("processed")
	m.RecordArticle("processed")
	m.RecordArticle("skipped")

	if got := testutil.ToFloat64(m.ArticlesProcessed.WithLabelValues("processed")); got != 2 {
		t.Errorf("processed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ArticlesProcessed.WithLabelValues("skipped")); got != 1 {
		t.Errorf("skipped = %v, want 1", got)
	}
}

func TestRecordAxis(t *testing.T) {
	m := New()
	m.RecordAxis("seo", true)
	m.RecordAxis("seo", false)

	if got := testutil.ToFloat64(m.AnalysisCalls.WithLabelValues("seo", "success")); got != 1 {
		t.Errorf("success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.AnalysisCalls.WithLabelValues("seo", "failure")); got != 1 {
		t.Errorf("failure = %v, want 1", got)
	}
}

func TestRecordUsage(t *testing.T) {
	m := New()
	m.RecordUsage(1000, 500, 0.0105)

	if got := testutil.ToFloat64(m.Tokens.WithLabelValues("input")); got != 1000 {
		t.Errorf("input tokens = %v, want 1000", got)
	}
	if got := testutil.ToFloat64(m.Tokens.WithLabelValues("output")); got != 500 {
		t.Errorf("output tokens = %v, want 500", got)
	}
	if got := testutil.ToFloat64(m.CostDollars); got != 0.0105 {
		t.Errorf("cost = %v, want 0.0105", got)
	}
}

func TestIsolatedRegistries(t *testing.T) {
	a := New()
	b := New()
	a.RecordArticle("processed")

	if got := testutil.ToFloat64(b.ArticlesProcessed.WithLabelValues("processed")); got != 0 {
		t.Errorf("second registry saw %v, want 0", got)
	}
}
