package risk

import (
	"math"
	"time"

	"github.com/ducminhle1904/futures-signal-bot/pkg/formulas"
)

// calculateMetricsLocked re-derives every metric from the PnL history
// and open positions. Caller must hold the mutex.
func (m *Manager) calculateMetricsLocked() Metrics {
	metrics := Metrics{
		PortfolioBeta: portfolioBetaPlaceholder,
		LastUpdated:   time.Now(),
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	cumulative := make([]float64, 0, len(m.historicalPnL))
	running := 0.0
	for _, point := range m.historicalPnL {
		metrics.TotalPnL += point.PnL
		if !point.Timestamp.Before(startOfDay) {
			metrics.DailyPnL += point.PnL
		}
		running += point.PnL
		cumulative = append(cumulative, running)
	}

	metrics.CurrentDrawdown, metrics.MaxDrawdown = drawdowns(cumulative)

	diffs := formulas.Diffs(cumulative)
	metrics.SharpeRatio = formulas.SharpeRatio(diffs)
	if len(diffs) > 0 {
		metrics.VaR95 = formulas.Percentile(diffs, 0.05)
		metrics.VaR99 = formulas.Percentile(diffs, 0.01)
		metrics.ExpectedShortfall = expectedShortfall(diffs, metrics.VaR95)
	}

	exposures := make([]float64, 0, len(m.positions))
	for _, p := range m.positions {
		exposures = append(exposures, math.Abs(p.PositionSizeUSD))
	}
	metrics.ConcentrationRisk = formulas.Herfindahl(exposures)
	metrics.CorrelationRisk = m.correlationHeuristicLocked()

	return metrics
}

// portfolioBetaPlaceholder stands in for a real beta against a market
// index; computing one needs price history this component does not
// consume yet.
const portfolioBetaPlaceholder = 1.0

// correlationHeuristicLocked is a deterministic placeholder for real
// pairwise price correlation: it scales with how full the position
// book is, on the premise that crypto perpetuals are highly correlated
// so more simultaneous positions mean more correlation exposure.
func (m *Manager) correlationHeuristicLocked() float64 {
	if len(m.positions) < 2 || m.limits.MaxOpenPositions == 0 {
		return 0
	}
	fill := float64(len(m.positions)) / float64(m.limits.MaxOpenPositions)
	return math.Min(1, fill) * 0.8
}

// drawdowns walks the cumulative PnL series once, tracking the running
// peak, and returns the current and the maximum peak-to-trough drop.
func drawdowns(cumulative []float64) (current, max float64) {
	if len(cumulative) == 0 {
		return 0, 0
	}
	peak := cumulative[0]
	for _, v := range cumulative {
		if v > peak {
			peak = v
		}
		if dd := peak - v; dd > max {
			max = dd
		}
	}
	current = math.Max(0, peak-cumulative[len(cumulative)-1])
	return current, max
}

// expectedShortfall averages the losses at or beyond the VaR cutoff.
func expectedShortfall(diffs []float64, varCutoff float64) float64 {
	sum, n := 0.0, 0
	for _, d := range diffs {
		if d <= varCutoff {
			sum += d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
