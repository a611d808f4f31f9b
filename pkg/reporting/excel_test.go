package reporting

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/futures-signal-bot/internal/decision"
	"github.com/ducminhle1904/futures-signal-bot/internal/exchange"
	"github.com/ducminhle1904/futures-signal-bot/internal/risk"
	"github.com/ducminhle1904/futures-signal-bot/internal/scoring"
	"github.com/ducminhle1904/futures-signal-bot/internal/sizing"
)

func sampleReport() ScanReport {
	return ScanReport{
		GeneratedAt: time.Now(),
		Symbols:     []string{"BTCUSDT", "ETHUSDT"},
		Opportunities: []decision.TradingOpportunity{
			{
				Symbol:     "BTCUSDT",
				Side:       exchange.OrderSideBuy,
				Action:     scoring.ActionBuy,
				Strength:   scoring.StrengthStrong,
				Confidence: 78,
				Scoring:    scoring.ScoringResult{WeightedScore: 3.2, ConfidencePct: 78},
				Sizing: sizing.Result{
					OK:             true,
					Quantity:       0.016,
					NotionalUSD:    800,
					EntryPrice:     50000,
					RequiredMargin: 160,
				},
			},
		},
		Metrics: risk.Metrics{TotalPnL: 120.5, MaxDrawdown: 45.2},
		Positions: []risk.PositionRisk{
			{Symbol: "ETHUSDT", Side: exchange.OrderSideBuy, Quantity: 0.5, AveragePrice: 3000, CurrentPrice: 3100, PositionSizeUSD: 1500},
		},
		Alerts: []risk.Alert{
			{ID: "a1", Type: risk.AlertConcentration, Severity: risk.SeverityMedium, Message: "concentration (HHI) 0.45 approaching limit 0.50", Timestamp: time.Now()},
		},
	}
}

func TestWriteScanReportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "scan.xlsx")
	require.NoError(t, WriteScanReportXLSX(sampleReport(), path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	assert.ElementsMatch(t, []string{"Summary", "Opportunities", "Positions", "Alerts"}, fx.GetSheetList())

	symbol, err := fx.GetCellValue("Opportunities", "B2")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", symbol)

	severity, err := fx.GetCellValue("Alerts", "C2")
	require.NoError(t, err)
	assert.Equal(t, "MEDIUM", severity)
}

func TestWriteScanReportXLSX_EmptyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.xlsx")
	require.NoError(t, WriteScanReportXLSX(ScanReport{GeneratedAt: time.Now()}, path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()
	assert.Len(t, fx.GetSheetList(), 4)
}
