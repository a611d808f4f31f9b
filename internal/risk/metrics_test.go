package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawdowns(t *testing.T) {
	current, max := drawdowns([]float64{100, 50, 120, 80})
	assert.InDelta(t, 40, current, 1e-9, "current drop from the 120 peak")
	assert.InDelta(t, 50, max, 1e-9, "worst drop was 100 -> 50")

	current, max = drawdowns([]float64{10, 20, 30})
	assert.Zero(t, current, "at the peak there is no drawdown")
	assert.Zero(t, max)

	current, max = drawdowns(nil)
	assert.Zero(t, current)
	assert.Zero(t, max)
}

// TestMaxDrawdownNonDecreasing verifies max drawdown only ever grows
// as more PnL observations arrive.
func TestMaxDrawdownNonDecreasing(t *testing.T) {
	m := newTestManager()

	previous := 0.0
	for _, pnl := range []float64{50, -30, 80, -120, 10, 200, -40, -5, 60} {
		m.RecordPnL(pnl)
		current := m.GetMetrics().MaxDrawdown
		assert.GreaterOrEqual(t, current, previous)
		previous = current
	}
}

func TestDailyAndTotalPnL(t *testing.T) {
	m := newTestManager()
	m.RecordPnL(30)
	m.RecordPnL(-10)

	metrics := m.GetMetrics()
	assert.InDelta(t, 20, metrics.TotalPnL, 1e-9)
	// Everything recorded just now falls inside today.
	assert.InDelta(t, 20, metrics.DailyPnL, 1e-9)
}

func TestValueAtRiskAndShortfall(t *testing.T) {
	m := newTestManager()
	for _, pnl := range []float64{10, -20, 5, -30, 15} {
		m.RecordPnL(pnl)
	}

	// The per-period changes are the recorded values after the first,
	// so the 5th-percentile loss is the worst of them.
	metrics := m.GetMetrics()
	assert.InDelta(t, -30, metrics.VaR95, 1e-9)
	assert.InDelta(t, -30, metrics.VaR99, 1e-9)
	assert.InDelta(t, -30, metrics.ExpectedShortfall, 1e-9)
	assert.LessOrEqual(t, metrics.VaR99, metrics.VaR95)
}

func TestSharpeNeedsHistory(t *testing.T) {
	m := newTestManager()
	m.RecordPnL(10)
	m.RecordPnL(20)

	// Only one per-period change: not enough to estimate variance.
	assert.Zero(t, m.GetMetrics().SharpeRatio)
}

func TestConcentrationRisk(t *testing.T) {
	m := newTestManager()

	m.UpdatePosition("BTCUSDT", position("BTCUSDT", 300))
	assert.InDelta(t, 1.0, m.GetMetrics().ConcentrationRisk, 1e-9, "single position owns the book")

	m.UpdatePosition("ETHUSDT", position("ETHUSDT", 300))
	assert.InDelta(t, 0.5, m.GetMetrics().ConcentrationRisk, 1e-9, "two equal positions")
}

func TestCorrelationHeuristic(t *testing.T) {
	m := newTestManager()

	m.UpdatePosition("BTCUSDT", position("BTCUSDT", 100))
	assert.Zero(t, m.GetMetrics().CorrelationRisk, "a lone position has nothing to correlate with")

	m.UpdatePosition("ETHUSDT", position("ETHUSDT", 100))
	assert.InDelta(t, 2.0/3.0*0.8, m.GetMetrics().CorrelationRisk, 1e-9)

	m.UpdatePosition("SOLUSDT", position("SOLUSDT", 100))
	assert.InDelta(t, 0.8, m.GetMetrics().CorrelationRisk, 1e-9, "full book caps at 0.8")
}

func TestPortfolioBetaPlaceholder(t *testing.T) {
	m := newTestManager()
	m.RecordPnL(1)
	assert.InDelta(t, 1.0, m.GetMetrics().PortfolioBeta, 1e-9)
}
