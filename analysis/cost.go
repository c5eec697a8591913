package analysis

import (
	"github.com/shopspring/decimal"
)

var million = decimal.NewFromInt(1_000_000)

// CostTracker accumulates estimated API spend from per-call token usage.
// It is caller-owned state: the pipeline injects one tracker into the client
// and resets it explicitly between articles to get per-article cost. It is
// not safe for concurrent use; axis calls are sequential by design.
type CostTracker struct {
	inputRate  decimal.Decimal // dollars per million input tokens
	outputRate decimal.Decimal // dollars per million output tokens

	cost         decimal.Decimal
	inputTokens  int
	outputTokens int
}

// NewCostTracker returns a tracker with the given per-million-token rates.
func NewCostTracker(inputRate, outputRate decimal.Decimal) *CostTracker {
	return &CostTracker{
		inputRate:  inputRate,
		outputRate: outputRate,
		cost:       decimal.Zero,
	}
}

// AddUsage records one call's token usage:
// cost += in/1M * inputRate + out/1M * outputRate.
func (t *CostTracker) AddUsage(inputTokens, outputTokens int) {
	inputCost := decimal.NewFromInt(int64(inputTokens)).Div(million).Mul(t.inputRate)
	outputCost := decimal.NewFromInt(int64(outputTokens)).Div(million).Mul(t.outputRate)
	t.cost = t.cost.Add(inputCost).Add(outputCost)
	t.inputTokens += inputTokens
	t.outputTokens += outputTokens
}

// Reset zeroes the accumulated cost and token counts.
func (t *CostTracker) Reset() {
	t.cost = decimal.Zero
	t.inputTokens = 0
	t.outputTokens = 0
}

// Cost returns the accumulated cost in dollars.
func (t *CostTracker) Cost() decimal.Decimal { return t.cost }

// InputTokens returns the accumulated input token count.
func (t *CostTracker) InputTokens() int { return t.inputTokens }

// OutputTokens returns the accumulated output token count.
func (t *CostTracker) OutputTokens() int { return t.outputTokens }
