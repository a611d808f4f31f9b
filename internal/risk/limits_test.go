package risk

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func latestAlertOfType(alerts []Alert, alertType AlertType) (Alert, bool) {
	for i := len(alerts) - 1; i >= 0; i-- {
		if alerts[i].Type == alertType {
			return alerts[i], true
		}
	}
	return Alert{}, false
}

// TestDailyLossAlertEscalation verifies the daily-loss check warns at
// 80% of the limit and goes critical at the limit.
func TestDailyLossAlertEscalation(t *testing.T) {
	m := newTestManager() // 5% of 1000 = 50 USD daily-loss limit

	m.RecordPnL(-40)
	alert, ok := latestAlertOfType(m.GetAlerts(), AlertDailyLoss)
	require.True(t, ok)
	assert.Equal(t, SeverityHigh, alert.Severity)
	assert.InDelta(t, 4.0, alert.CurrentValue, 1e-9)

	m.RecordPnL(-10)
	alert, ok = latestAlertOfType(m.GetAlerts(), AlertDailyLoss)
	require.True(t, ok)
	assert.Equal(t, SeverityCritical, alert.Severity)
}

// TestAlertsIncrementRiskAlertCounter verifies raised alerts reach
// the Prometheus counter, so the scrape endpoint reflects them.
func TestAlertsIncrementRiskAlertCounter(t *testing.T) {
	m := newTestManager()
	m.RecordPnL(-50) // critical daily loss

	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "signal_bot_risk_alerts_total")
	require.NoError(t, err)
	assert.Greater(t, n, 0)
}

func TestDrawdownAlert(t *testing.T) {
	m := newTestManager() // 15% of 1000 = 150 USD drawdown limit

	m.RecordPnL(100)
	m.RecordPnL(-260)

	alert, ok := latestAlertOfType(m.GetAlerts(), AlertDrawdown)
	require.True(t, ok)
	assert.Equal(t, SeverityCritical, alert.Severity)
	assert.InDelta(t, 26.0, alert.CurrentValue, 1e-9)
}

// TestPositionSizeAlertCarriesSymbol verifies per-position alerts name
// the offending symbol.
func TestPositionSizeAlertCarriesSymbol(t *testing.T) {
	m := newTestManager() // 1000 USD per-position limit

	m.UpdatePosition("BTCUSDT", position("BTCUSDT", 850))
	alert, ok := latestAlertOfType(m.GetAlerts(), AlertPositionSize)
	require.True(t, ok)
	assert.Equal(t, SeverityMedium, alert.Severity)
	assert.Equal(t, "BTCUSDT", alert.Symbol)

	m.UpdatePosition("BTCUSDT", position("BTCUSDT", 1200))
	alert, ok = latestAlertOfType(m.GetAlerts(), AlertPositionSize)
	require.True(t, ok)
	assert.Equal(t, SeverityCritical, alert.Severity)
}

func TestNoAlertsBelowWarningThreshold(t *testing.T) {
	m := newTestManager()

	m.RecordPnL(-10)
	m.UpdatePosition("BTCUSDT", position("BTCUSDT", 200))
	m.UpdatePosition("ETHUSDT", position("ETHUSDT", 210))
	m.UpdatePosition("SOLUSDT", position("SOLUSDT", 190))

	for _, alertType := range []AlertType{AlertDailyLoss, AlertDrawdown, AlertPositionSize, AlertConcentration} {
		_, ok := latestAlertOfType(m.GetAlerts(), alertType)
		assert.False(t, ok, "unexpected %s alert", alertType)
	}
}

// TestAlertHistoryCap verifies the alert log keeps only the newest
// entries once it passes the cap.
func TestAlertHistoryCap(t *testing.T) {
	m := newTestManager()
	m.UpdatePosition("BTCUSDT", position("BTCUSDT", 2000))

	for i := 0; i < maxAlerts+50; i++ {
		require.NoError(t, m.Evaluate())
	}

	alerts := m.GetAlerts()
	assert.Len(t, alerts, maxAlerts)

	// The survivors are the newest: ordering by time holds.
	assert.False(t, alerts[0].Timestamp.After(alerts[len(alerts)-1].Timestamp))
}
