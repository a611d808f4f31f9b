package decision

import (
	"fmt"
	"strconv"
)

// Execution-time floors, re-checked just before an order goes out.
const (
	minExecutionConfidence = 30
	minExecutionNotional   = 5.0
)

// ValidateOpportunity re-checks an opportunity at execution time.
// Margin and open positions may have changed since the decision was
// made, so four independent gates run in order and the first failure
// short-circuits with its reason.
func ValidateOpportunity(opp *TradingOpportunity, openPositions, maxPositions int) (bool, string) {
	if openPositions >= maxPositions {
		return false, fmt.Sprintf("open positions %d at limit %d", openPositions, maxPositions)
	}
	if !opp.Sizing.OK {
		return false, fmt.Sprintf("sizing not executable: %s", opp.Sizing.Reason)
	}
	if opp.Confidence < minExecutionConfidence {
		return false, fmt.Sprintf("confidence %d%% below execution floor %d%%", opp.Confidence, minExecutionConfidence)
	}
	if opp.Sizing.NotionalUSD < minExecutionNotional {
		return false, fmt.Sprintf("notional %.2f below execution floor %.2f", opp.Sizing.NotionalUSD, minExecutionNotional)
	}
	return true, ""
}

// PrepareOrder formats an opportunity into a market order, rounding
// the quantity string to the exchange's precision. Returns nil when
// the sizing is incomplete; it never panics.
func PrepareOrder(opp *TradingOpportunity) *Order {
	if opp == nil || !opp.Sizing.OK || opp.Sizing.Meta == nil {
		return nil
	}

	qty := strconv.FormatFloat(opp.Sizing.Quantity, 'f', opp.Sizing.Meta.Precision, 64)

	return &Order{
		Symbol:      opp.Symbol,
		Side:        opp.Side,
		Type:        "MARKET",
		Quantity:    qty,
		NotionalUSD: opp.Sizing.NotionalUSD,
		Leverage:    opp.Leverage,
	}
}
