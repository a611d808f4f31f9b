package risk

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ducminhle1904/futures-signal-bot/internal/monitoring"
)

// warnFraction is the share of a hard limit at which a warning-level
// alert fires.
const warnFraction = 0.8

// checkLimitsLocked evaluates every limit independently against the
// freshly derived metrics. Each breached check appends a new alert
// every cycle, with no deduplication: repeated breaches stay visible
// at the cost of noise. Caller must hold the mutex.
func (m *Manager) checkLimitsLocked() {
	if m.initialBalance > 0 {
		dailyLossPct := -m.metrics.DailyPnL / m.initialBalance * 100
		m.thresholdCheckLocked(AlertDailyLoss, SeverityHigh, dailyLossPct, m.limits.MaxDailyLossPercent, "",
			fmt.Sprintf("daily loss %.2f%% of balance", dailyLossPct))

		drawdownPct := m.metrics.CurrentDrawdown / m.initialBalance * 100
		m.thresholdCheckLocked(AlertDrawdown, SeverityHigh, drawdownPct, m.limits.MaxDrawdownPercent, "",
			fmt.Sprintf("drawdown %.2f%% of balance", drawdownPct))
	}

	for symbol, p := range m.positions {
		m.thresholdCheckLocked(AlertPositionSize, SeverityMedium, p.PositionSizeUSD, m.limits.MaxPositionSizeUSD, symbol,
			fmt.Sprintf("%s position size %.2f USD", symbol, p.PositionSizeUSD))
	}

	m.thresholdCheckLocked(AlertCorrelation, SeverityMedium, m.metrics.CorrelationRisk, m.limits.MaxCorrelation, "",
		fmt.Sprintf("correlation risk %.2f", m.metrics.CorrelationRisk))

	m.thresholdCheckLocked(AlertConcentration, SeverityMedium, m.metrics.ConcentrationRisk, m.limits.MaxSectorExposure, "",
		fmt.Sprintf("concentration (HHI) %.2f", m.metrics.ConcentrationRisk))
}

// thresholdCheckLocked raises a CRITICAL alert when current exceeds
// the hard limit, or a warning-severity alert when it crosses the
// warning fraction of the limit.
func (m *Manager) thresholdCheckLocked(alertType AlertType, warnSeverity Severity, current, limit float64, symbol, detail string) {
	if limit <= 0 || current <= 0 {
		return
	}

	switch {
	case current >= limit:
		m.addAlertLocked(alertType, SeverityCritical, current, limit, symbol,
			fmt.Sprintf("%s exceeds limit %.2f", detail, limit))
	case current >= limit*warnFraction:
		m.addAlertLocked(alertType, warnSeverity, current, limit, symbol,
			fmt.Sprintf("%s approaching limit %.2f", detail, limit))
	}
}

func (m *Manager) addAlertLocked(alertType AlertType, severity Severity, current, limit float64, symbol, message string) {
	alert := Alert{
		ID:           uuid.NewString(),
		Type:         alertType,
		Severity:     severity,
		Message:      message,
		CurrentValue: current,
		LimitValue:   limit,
		Symbol:       symbol,
		Timestamp:    time.Now(),
	}

	m.alerts = append(m.alerts, alert)
	if len(m.alerts) > maxAlerts {
		m.alerts = m.alerts[len(m.alerts)-maxAlerts:]
	}

	monitoring.RecordRiskAlert(string(alertType), string(severity))

	event := m.log.Warn()
	if severity == SeverityCritical {
		event = m.log.Error()
	}
	event.
		Str("type", string(alertType)).
		Str("severity", string(severity)).
		Float64("current", current).
		Float64("limit", limit).
		Str("symbol", symbol).
		Msg(message)

	if m.notifier != nil && severity == SeverityCritical {
		// Push outside the lock path; a slow notifier must not stall
		// the evaluation cycle.
		go func() {
			if err := m.notifier.SendAlert("error", message); err != nil {
				m.log.Warn().Err(err).Msg("Failed to push risk alert notification")
			}
		}()
	}
}
