package reporting

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/futures-signal-bot/internal/decision"
	"github.com/ducminhle1904/futures-signal-bot/internal/risk"
)

// PrintOpportunities renders the ranked opportunities of one scan
// cycle as a console table.
func PrintOpportunities(opportunities []decision.TradingOpportunity) {
	if len(opportunities) == 0 {
		fmt.Println("📭 No executable opportunities this cycle")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("TRADING OPPORTUNITIES")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"#", "Symbol", "Side", "Strength", "Score", "Conf", "Qty", "Notional", "Entry", "Margin"})

	for i, opp := range opportunities {
		side := "📈 " + string(opp.Side)
		if opp.Side == "Sell" {
			side = "📉 " + string(opp.Side)
		}
		t.AppendRow(table.Row{
			i + 1,
			opp.Symbol,
			side,
			string(opp.Strength),
			fmt.Sprintf("%.3f", opp.Scoring.WeightedScore),
			fmt.Sprintf("%d%%", opp.Confidence),
			fmt.Sprintf("%.6f", opp.Sizing.Quantity),
			fmt.Sprintf("$%.2f", opp.Sizing.NotionalUSD),
			fmt.Sprintf("$%.4f", opp.Sizing.EntryPrice),
			fmt.Sprintf("$%.2f", opp.Sizing.RequiredMargin),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
		{Number: 10, Align: text.AlignRight},
	})

	t.Render()
	fmt.Println()
}

// PrintRiskStatus renders the current portfolio risk picture.
func PrintRiskStatus(metrics risk.Metrics, positions []risk.PositionRisk, alerts []risk.Alert) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("PORTFOLIO RISK")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"💰 Total PnL", fmt.Sprintf("$%.2f", metrics.TotalPnL)},
		{"📅 Daily PnL", fmt.Sprintf("$%.2f", metrics.DailyPnL)},
		{"📉 Current Drawdown", fmt.Sprintf("$%.2f", metrics.CurrentDrawdown)},
		{"📉 Max Drawdown", fmt.Sprintf("$%.2f", metrics.MaxDrawdown)},
		{"📊 Sharpe Ratio", fmt.Sprintf("%.2f", metrics.SharpeRatio)},
		{"📊 VaR 95 / 99", fmt.Sprintf("$%.2f / $%.2f", metrics.VaR95, metrics.VaR99)},
		{"🎯 Concentration (HHI)", fmt.Sprintf("%.2f", metrics.ConcentrationRisk)},
		{"🔗 Correlation Risk", fmt.Sprintf("%.2f", metrics.CorrelationRisk)},
		{"📂 Open Positions", len(positions)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 22, WidthMax: 22, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, WidthMax: 30, Align: text.AlignLeft},
	})

	t.Render()

	unacknowledged := 0
	for _, alert := range alerts {
		if !alert.Acknowledged {
			unacknowledged++
		}
	}
	if unacknowledged > 0 {
		fmt.Printf("🚨 %d unacknowledged risk alert(s)\n", unacknowledged)
	}
	fmt.Println()
}

// PrintScanHeader prints the banner for a one-shot scan.
func PrintScanHeader(symbols []string) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("🔍 OPPORTUNITY SCAN")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("📊 Symbols: %s\n\n", strings.Join(symbols, ", "))
}
