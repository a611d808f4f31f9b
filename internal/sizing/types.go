package sizing

import (
	"github.com/ducminhle1904/futures-signal-bot/internal/exchange"
)

// Input describes a desired position: how much margin to commit at
// what leverage, for which symbol and side.
type Input struct {
	Symbol         string             `json:"symbol"`
	Side           exchange.OrderSide `json:"side"`
	Leverage       float64            `json:"leverage"`
	MaxMarginUSD   float64            `json:"max_margin_usd"`
	RiskPercentage float64            `json:"risk_percentage"`
}

// Result is a typed sizing outcome. OK false with a Reason means the
// input has no exchange-valid quantity; it is a result, not an error,
// so callers can branch on it.
type Result struct {
	OK             bool                 `json:"ok"`
	Reason         string               `json:"reason,omitempty"`
	Quantity       float64              `json:"qty,omitempty"`
	NotionalUSD    float64              `json:"notional_usd,omitempty"`
	EntryPrice     float64              `json:"entry_price,omitempty"`
	RequiredMargin float64              `json:"required_margin,omitempty"`
	Meta           *exchange.SymbolMeta `json:"meta,omitempty"`
}

func reject(reason string) Result {
	return Result{OK: false, Reason: reason}
}
