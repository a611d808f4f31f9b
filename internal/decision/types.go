package decision

import (
	"github.com/ducminhle1904/futures-signal-bot/internal/exchange"
	"github.com/ducminhle1904/futures-signal-bot/internal/scoring"
	"github.com/ducminhle1904/futures-signal-bot/internal/sizing"
)

// Config holds the decision engine parameters. Every field has an
// explicit default applied by ApplyDefaults; zero values never leak
// into the pipeline.
type Config struct {
	// Leverage applied to every opportunity.
	Leverage float64 `json:"leverage"`
	// MaxMarginPerTrade is the fraction of available margin committed
	// to a single trade.
	MaxMarginPerTrade float64 `json:"max_margin_per_trade"`
	// MaxTrades caps how many opportunities one cycle may emit.
	MaxTrades int `json:"max_trades"`
	// RiskPercentage is passed through to the position sizer.
	RiskPercentage float64 `json:"risk_percentage"`
	// MaxConcurrency bounds the symbol fan-out width.
	MaxConcurrency int `json:"max_concurrency"`

	Thresholds scoring.Thresholds `json:"thresholds"`
}

// ApplyDefaults fills unset fields and returns the completed config.
// Pure: the receiver is copied, not mutated.
func (c Config) ApplyDefaults() Config {
	if c.Leverage <= 0 {
		c.Leverage = 5
	}
	if c.MaxMarginPerTrade <= 0 || c.MaxMarginPerTrade > 1 {
		c.MaxMarginPerTrade = 0.8
	}
	if c.MaxTrades <= 0 {
		c.MaxTrades = 2
	}
	if c.RiskPercentage <= 0 || c.RiskPercentage > 1 {
		c.RiskPercentage = 1.0
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 4
	}
	if c.Thresholds == (scoring.Thresholds{}) {
		c.Thresholds = scoring.DefaultThresholds()
	}
	return c
}

// TradingOpportunity is one executable trade candidate. Immutable once
// built; it lives for a single decision cycle and is consumed by the
// order executor.
type TradingOpportunity struct {
	Symbol       string                `json:"symbol"`
	Side         exchange.OrderSide    `json:"side"`
	Leverage     float64               `json:"leverage"`
	MaxMarginUSD float64               `json:"max_margin_usd"`
	Sizing       sizing.Result         `json:"sizing"`
	Scoring      scoring.ScoringResult `json:"scoring"`
	Action       scoring.Action        `json:"action"`
	Strength     scoring.Strength      `json:"strength"`
	Confidence   int                   `json:"confidence"`
}

// Order is the formatted market order handed to the executor.
type Order struct {
	Symbol      string             `json:"symbol"`
	Side        exchange.OrderSide `json:"side"`
	Type        string             `json:"type"`
	Quantity    string             `json:"quantity"`
	NotionalUSD float64            `json:"notional_usd"`
	Leverage    float64            `json:"leverage"`
}
