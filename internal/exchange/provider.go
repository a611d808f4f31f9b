package exchange

import (
	"context"
)

// OrderSide represents buy or sell side (string-based for API compatibility)
type OrderSide string

const (
	OrderSideBuy  OrderSide = "Buy"
	OrderSideSell OrderSide = "Sell"
)

// SymbolMeta holds the exchange-imposed order constraints for a symbol.
// StepSize is the quantity quantization step, MinQty and MinNotional the
// minimum order size and minimum USD value, Precision the number of
// decimal places accepted in the quantity field.
type SymbolMeta struct {
	Symbol      string  `json:"symbol"`
	StepSize    float64 `json:"step_size"`
	MinQty      float64 `json:"min_qty"`
	MinNotional float64 `json:"min_notional"`
	Precision   int     `json:"precision"`
}

// MarketDataProvider supplies symbol constraints and prices to the
// position sizer. Implementations may cache internally; freshness is
// their concern.
type MarketDataProvider interface {
	GetSymbolMeta(ctx context.Context, symbol string) (*SymbolMeta, error)
	GetPrice(ctx context.Context, symbol string) (float64, error)
}

// AccountProvider supplies the margin currently available for trading.
type AccountProvider interface {
	GetAvailableMargin(ctx context.Context) (float64, error)
}
