package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/futures-signal-bot/internal/decision"
	"github.com/ducminhle1904/futures-signal-bot/internal/risk"
)

// ScanReport bundles everything one scan cycle produced for export.
type ScanReport struct {
	GeneratedAt   time.Time
	Symbols       []string
	Opportunities []decision.TradingOpportunity
	Metrics       risk.Metrics
	Positions     []risk.PositionRisk
	Alerts        []risk.Alert
}

// WriteScanReportXLSX writes a multi-sheet Excel report of a scan
// cycle: summary metrics, ranked opportunities, open positions, and
// risk alerts.
func WriteScanReportXLSX(report ScanReport, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const (
		summarySheet       = "Summary"
		opportunitiesSheet = "Opportunities"
		positionsSheet     = "Positions"
		alertsSheet        = "Alerts"
	)

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	fx.NewSheet(opportunitiesSheet)
	fx.NewSheet(positionsSheet)
	fx.NewSheet(alertsSheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	if err := writeSummarySheet(fx, summarySheet, report, headerStyle); err != nil {
		return err
	}
	if err := writeOpportunitiesSheet(fx, opportunitiesSheet, report.Opportunities, headerStyle); err != nil {
		return err
	}
	if err := writePositionsSheet(fx, positionsSheet, report.Positions, headerStyle); err != nil {
		return err
	}
	if err := writeAlertsSheet(fx, alertsSheet, report.Alerts, headerStyle); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func writeHeader(fx *excelize.File, sheet string, header []interface{}, style int) error {
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	endCell, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return fx.SetCellStyle(sheet, "A1", endCell, style)
}

func writeSummarySheet(fx *excelize.File, sheet string, report ScanReport, style int) error {
	if err := writeHeader(fx, sheet, []interface{}{"Metric", "Value"}, style); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Generated At", report.GeneratedAt.Format(time.RFC3339)},
		{"Symbols Scanned", len(report.Symbols)},
		{"Opportunities", len(report.Opportunities)},
		{"Open Positions", len(report.Positions)},
		{"Total PnL", report.Metrics.TotalPnL},
		{"Daily PnL", report.Metrics.DailyPnL},
		{"Current Drawdown", report.Metrics.CurrentDrawdown},
		{"Max Drawdown", report.Metrics.MaxDrawdown},
		{"Sharpe Ratio", report.Metrics.SharpeRatio},
		{"VaR 95", report.Metrics.VaR95},
		{"VaR 99", report.Metrics.VaR99},
		{"Expected Shortfall", report.Metrics.ExpectedShortfall},
		{"Concentration (HHI)", report.Metrics.ConcentrationRisk},
		{"Correlation Risk", report.Metrics.CorrelationRisk},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return fx.SetColWidth(sheet, "A", "A", 24)
}

func writeOpportunitiesSheet(fx *excelize.File, sheet string, opportunities []decision.TradingOpportunity, style int) error {
	header := []interface{}{"Rank", "Symbol", "Side", "Action", "Strength", "Score", "Confidence %", "Quantity", "Notional USD", "Entry Price", "Required Margin"}
	if err := writeHeader(fx, sheet, header, style); err != nil {
		return err
	}

	for i, opp := range opportunities {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			i + 1,
			opp.Symbol,
			string(opp.Side),
			string(opp.Action),
			string(opp.Strength),
			opp.Scoring.WeightedScore,
			opp.Confidence,
			opp.Sizing.Quantity,
			opp.Sizing.NotionalUSD,
			opp.Sizing.EntryPrice,
			opp.Sizing.RequiredMargin,
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return fx.SetColWidth(sheet, "A", "K", 14)
}

func writePositionsSheet(fx *excelize.File, sheet string, positions []risk.PositionRisk, style int) error {
	header := []interface{}{"Symbol", "Side", "Quantity", "Avg Price", "Current Price", "Unrealized PnL", "Size USD"}
	if err := writeHeader(fx, sheet, header, style); err != nil {
		return err
	}

	for i, p := range positions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			p.Symbol, string(p.Side), p.Quantity, p.AveragePrice, p.CurrentPrice, p.UnrealizedPnL, p.PositionSizeUSD,
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return fx.SetColWidth(sheet, "A", "G", 15)
}

func writeAlertsSheet(fx *excelize.File, sheet string, alerts []risk.Alert, style int) error {
	header := []interface{}{"Time", "Type", "Severity", "Symbol", "Current", "Limit", "Acknowledged", "Message"}
	if err := writeHeader(fx, sheet, header, style); err != nil {
		return err
	}

	for i, alert := range alerts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			alert.Timestamp.Format(time.RFC3339),
			string(alert.Type),
			string(alert.Severity),
			alert.Symbol,
			alert.CurrentValue,
			alert.LimitValue,
			alert.Acknowledged,
			alert.Message,
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := fx.SetColWidth(sheet, "A", "A", 22); err != nil {
		return err
	}
	return fx.SetColWidth(sheet, "H", "H", 50)
}
