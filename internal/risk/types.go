package risk

import (
	"time"

	"github.com/ducminhle1904/futures-signal-bot/internal/exchange"
)

// Limits are the static risk ceilings. Percent fields are expressed as
// percentages (5 means 5%), fraction fields as ratios in [0,1].
type Limits struct {
	MaxPositionSizeUSD  float64 `json:"max_position_size_usd"`
	MaxDailyLossPercent float64 `json:"max_daily_loss_percent"`
	MaxDrawdownPercent  float64 `json:"max_drawdown_percent"`
	MaxOpenPositions    int     `json:"max_open_positions"`
	MaxCorrelation      float64 `json:"max_correlation"`
	MaxSectorExposure   float64 `json:"max_sector_exposure"`
	StopLossPercent     float64 `json:"stop_loss_percent"`
	TakeProfitPercent   float64 `json:"take_profit_percent"`
	MaxLeverage         float64 `json:"max_leverage"`
}

// DefaultLimits returns conservative stock limits.
func DefaultLimits() Limits {
	return Limits{
		MaxPositionSizeUSD:  1000,
		MaxDailyLossPercent: 5,
		MaxDrawdownPercent:  15,
		MaxOpenPositions:    3,
		MaxCorrelation:      0.7,
		MaxSectorExposure:   0.5,
		StopLossPercent:     2,
		TakeProfitPercent:   5,
		MaxLeverage:         10,
	}
}

// Metrics are derived portfolio risk numbers, recomputed from scratch
// every evaluation cycle. They are a pure function of the PnL history
// and the open positions; nothing is incrementally patched.
type Metrics struct {
	CurrentDrawdown   float64   `json:"current_drawdown"`
	DailyPnL          float64   `json:"daily_pnl"`
	TotalPnL          float64   `json:"total_pnl"`
	SharpeRatio       float64   `json:"sharpe_ratio"`
	MaxDrawdown       float64   `json:"max_drawdown"`
	VaR95             float64   `json:"var_95"`
	VaR99             float64   `json:"var_99"`
	ExpectedShortfall float64   `json:"expected_shortfall"`
	PortfolioBeta     float64   `json:"portfolio_beta"`
	CorrelationRisk   float64   `json:"correlation_risk"`
	ConcentrationRisk float64   `json:"concentration_risk"`
	LastUpdated       time.Time `json:"last_updated"`
}

// PositionRisk is the tracked risk state of one open position.
type PositionRisk struct {
	Symbol               string             `json:"symbol"`
	Side                 exchange.OrderSide `json:"side"`
	Quantity             float64            `json:"quantity"`
	AveragePrice         float64            `json:"average_price"`
	CurrentPrice         float64            `json:"current_price"`
	UnrealizedPnL        float64            `json:"unrealized_pnl"`
	UnrealizedPnLPercent float64            `json:"unrealized_pnl_percent"`
	PositionSizeUSD      float64            `json:"position_size_usd"`
	RiskScore            float64            `json:"risk_score"`
	StopLossPrice        float64            `json:"stop_loss_price,omitempty"`
	TakeProfitPrice      float64            `json:"take_profit_price,omitempty"`
	DaysHeld             int                `json:"days_held"`
}

// AlertType identifies which limit check raised an alert.
type AlertType string

const (
	AlertDailyLoss     AlertType = "daily_loss"
	AlertDrawdown      AlertType = "drawdown"
	AlertPositionSize  AlertType = "position_size"
	AlertCorrelation   AlertType = "correlation"
	AlertConcentration AlertType = "concentration"
)

// Severity grades an alert.
type Severity string

const (
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Alert records one limit breach or warning. Acknowledgment is the
// only mutation after creation.
type Alert struct {
	ID           string    `json:"id"`
	Type         AlertType `json:"type"`
	Severity     Severity  `json:"severity"`
	Message      string    `json:"message"`
	CurrentValue float64   `json:"current_value"`
	LimitValue   float64   `json:"limit_value"`
	Symbol       string    `json:"symbol,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
}

// PnLPoint is one realized-PnL observation.
type PnLPoint struct {
	Timestamp time.Time `json:"timestamp"`
	PnL       float64   `json:"pnl"`
}
