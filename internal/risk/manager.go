package risk

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ducminhle1904/futures-signal-bot/internal/exchange"
	"github.com/ducminhle1904/futures-signal-bot/internal/notifications"
)

const (
	// pnlRetention is the realized-PnL history window.
	pnlRetention = 365 * 24 * time.Hour
	// maxAlerts caps the alert list at the most recent entries.
	maxAlerts = 1000
)

// Manager tracks open positions and realized PnL, derives portfolio
// risk metrics, raises alerts, and is the final gate that may veto a
// trade. All state is guarded by a single mutex: UpdatePosition,
// RecordPnL and the periodic evaluation all read-then-write the same
// aggregates. Construct one instance at process start and pass it by
// reference; there is no package-level singleton.
type Manager struct {
	mu sync.RWMutex

	limits         Limits
	initialBalance float64

	positions     map[string]PositionRisk
	alerts        []Alert
	historicalPnL []PnLPoint
	metrics       Metrics

	notifier notifications.Notifier
	log      zerolog.Logger
}

// NewManager creates a risk manager. initialBalance anchors the
// percent-based daily-loss and drawdown limits. notifier may be nil.
func NewManager(limits Limits, initialBalance float64, notifier notifications.Notifier, log zerolog.Logger) *Manager {
	return &Manager{
		limits:         limits,
		initialBalance: initialBalance,
		positions:      make(map[string]PositionRisk),
		alerts:         make([]Alert, 0, 64),
		historicalPnL:  make([]PnLPoint, 0, 256),
		notifier:       notifier,
		log:            log.With().Str("component", "risk").Logger(),
	}
}

// UpdatePosition upserts an open position and synchronously re-derives
// metrics and limit checks.
func (m *Manager) UpdatePosition(symbol string, position PositionRisk) {
	m.mu.Lock()
	defer m.mu.Unlock()

	position.Symbol = symbol
	m.positions[symbol] = position
	m.recomputeLocked()
}

// RemovePosition deletes a closed position and re-derives state.
func (m *Manager) RemovePosition(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.positions, symbol)
	m.recomputeLocked()
}

// RecordPnL appends a realized PnL observation, prunes entries outside
// the retention window, and re-derives state.
func (m *Manager) RecordPnL(value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.historicalPnL = append(m.historicalPnL, PnLPoint{Timestamp: time.Now(), PnL: value})
	m.pruneHistoryLocked()
	m.recomputeLocked()
}

func (m *Manager) pruneHistoryLocked() {
	cutoff := time.Now().Add(-pnlRetention)
	firstKept := 0
	for firstKept < len(m.historicalPnL) && m.historicalPnL[firstKept].Timestamp.Before(cutoff) {
		firstKept++
	}
	if firstKept > 0 {
		m.historicalPnL = append(m.historicalPnL[:0:0], m.historicalPnL[firstKept:]...)
	}
}

func (m *Manager) recomputeLocked() {
	m.metrics = m.calculateMetricsLocked()
	m.checkLimitsLocked()
}

// Evaluate recomputes metrics and limit checks. The periodic monitor
// calls this so risk state stays current even with no new trades.
func (m *Manager) Evaluate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recomputeLocked()
	return nil
}

// Name implements the scheduler Job interface.
func (m *Manager) Name() string { return "risk-evaluation" }

// Run implements the scheduler Job interface.
func (m *Manager) Run() error { return m.Evaluate() }

// ShouldAllowTrade is the final veto before an opportunity becomes an
// order. Any violated ceiling blocks the trade.
func (m *Manager) ShouldAllowTrade(symbol string, qty, price float64, side exchange.OrderSide) (bool, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	positionValue := qty * price
	if positionValue > m.limits.MaxPositionSizeUSD {
		return false, fmt.Sprintf("position value %.2f exceeds limit %.2f", positionValue, m.limits.MaxPositionSizeUSD)
	}

	// Adding to an existing symbol does not open a new slot.
	if _, exists := m.positions[symbol]; !exists {
		if len(m.positions) >= m.limits.MaxOpenPositions {
			return false, fmt.Sprintf("open positions %d at limit %d", len(m.positions), m.limits.MaxOpenPositions)
		}
	}

	if m.initialBalance > 0 {
		dailyLossPct := -m.metrics.DailyPnL / m.initialBalance * 100
		if dailyLossPct >= m.limits.MaxDailyLossPercent {
			return false, fmt.Sprintf("daily loss %.2f%% at limit %.2f%%", dailyLossPct, m.limits.MaxDailyLossPercent)
		}

		drawdownPct := m.metrics.CurrentDrawdown / m.initialBalance * 100
		if drawdownPct >= m.limits.MaxDrawdownPercent {
			return false, fmt.Sprintf("drawdown %.2f%% at limit %.2f%%", drawdownPct, m.limits.MaxDrawdownPercent)
		}
	}

	return true, ""
}

// RecommendedStopLoss returns the stop price for an entry, below entry
// for longs and above for shorts.
func (m *Manager) RecommendedStopLoss(entryPrice float64, side exchange.OrderSide) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pct := m.limits.StopLossPercent / 100
	if side == exchange.OrderSideBuy {
		return entryPrice * (1 - pct)
	}
	return entryPrice * (1 + pct)
}

// RecommendedTakeProfit returns the profit target for an entry.
func (m *Manager) RecommendedTakeProfit(entryPrice float64, side exchange.OrderSide) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pct := m.limits.TakeProfitPercent / 100
	if side == exchange.OrderSideBuy {
		return entryPrice * (1 + pct)
	}
	return entryPrice * (1 - pct)
}

// AcknowledgeAlert marks an alert as acknowledged. Returns false when
// the ID is unknown.
func (m *Manager) AcknowledgeAlert(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.alerts {
		if m.alerts[i].ID == id {
			m.alerts[i].Acknowledged = true
			return true
		}
	}
	return false
}

// UpdateLimits swaps in new ceilings and re-derives state against them.
func (m *Manager) UpdateLimits(limits Limits) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.limits = limits
	m.recomputeLocked()
}

// Limits returns the current ceilings.
func (m *Manager) Limits() Limits {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.limits
}

// GetMetrics returns a copy of the latest derived metrics.
func (m *Manager) GetMetrics() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metrics
}

// GetPositions returns a copy of the open positions.
func (m *Manager) GetPositions() []PositionRisk {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]PositionRisk, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, p)
	}
	return out
}

// OpenPositionCount returns the number of open positions.
func (m *Manager) OpenPositionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.positions)
}

// GetAlerts returns a copy of the alert list, most recent last.
func (m *Manager) GetAlerts() []Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Alert, len(m.alerts))
	copy(out, m.alerts)
	return out
}
