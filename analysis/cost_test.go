package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
)

func newTestTracker() *CostTracker {
	return NewCostTracker(decimal.RequireFromString("3.00"), decimal.RequireFromString("15.00"))
}

func TestCostTrackerAddUsage(t *testing.T) {
	tracker := newTestTracker()

	tracker.AddUsage(1_000_000, 1_000_000)
	if want := decimal.NewFromInt(18); !tracker.Cost().Equal(want) {
		t.Errorf("Cost = %s, want %s", tracker.Cost(), want)
	}

	tracker.AddUsage(1000, 500)
	// 18 + 0.003 + 0.0075
	if want := decimal.RequireFromString("18.0105"); !tracker.Cost().Equal(want) {
		t.Errorf("Cost = %s, want %s", tracker.Cost(), want)
	}
	if tracker.InputTokens() != 1_001_000 || tracker.OutputTokens() != 1_000_500 {
		t.Errorf("tokens = %d/%d", tracker.InputTokens(), tracker.OutputTokens())
	}
}

func TestCostTrackerStringFixed(t *testing.T) {
	tracker := newTestTracker()
	tracker.AddUsage(1000, 500)

	if got := tracker.Cost().StringFixed(4); got != "0.0105" {
		t.Errorf("StringFixed(4) = %q, want 0.0105", got)
	}
}

func TestCostTrackerReset(t *testing.T) {
	tracker := newTestTracker()
	tracker.AddUsage(5000, 2500)
	tracker.Reset()

	if !tracker.Cost().IsZero() {
		t.Errorf("Cost after reset = %s, want 0", tracker.Cost())
	}
	if tracker.InputTokens() != 0 || tracker.OutputTokens() != 0 {
		t.Errorf("tokens after reset = %d/%d", tracker.InputTokens(), tracker.OutputTokens())
	}
}
