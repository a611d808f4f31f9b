package scoring

// Factor names recognized by the scoring engine. Each corresponds to
// an upstream analytic that produces a bounded score or no data at all.
const (
	FactorTechnical   = "Technical"
	FactorSentiment   = "Sentiment"
	FactorOnChain     = "OnChain"
	FactorDerivatives = "Derivatives"
	FactorMacro       = "Macro"
	FactorSmartMoney  = "SmartMoney"
	FactorCoinGecko   = "CoinGecko"
	FactorFearGreed   = "FearGreed"
	FactorNews        = "News"
)

// FactorScore is one named factor's contribution to a scoring call.
// Score == nil means "no data" and is never treated as a value: the
// effective Weight is zeroed for the computation while OriginalWeight
// is preserved for confidence accounting.
type FactorScore struct {
	Name           string   `json:"name"`
	Score          *float64 `json:"score"`
	Weight         float64  `json:"weight"`
	OriginalWeight float64  `json:"original_weight"`
}

// ScoringResult is the aggregate of one scoring call.
type ScoringResult struct {
	WeightedScore float64       `json:"weighted_score"`
	ConfidencePct int           `json:"confidence_pct"`
	Factors       []FactorScore `json:"factors"`
	TotalWeight   float64       `json:"total_weight"`
	ValidFactors  int           `json:"valid_factors"`
}

// Action is the classified trade direction.
type Action string

const (
	ActionStrongBuy  Action = "STRONG_BUY"
	ActionBuy        Action = "BUY"
	ActionHold       Action = "HOLD"
	ActionSell       Action = "SELL"
	ActionStrongSell Action = "STRONG_SELL"
)

// IsBuy reports whether the action opens a long position.
func (a Action) IsBuy() bool {
	return a == ActionBuy || a == ActionStrongBuy
}

// IsActionable reports whether the action produces an order at all.
func (a Action) IsActionable() bool {
	return a != ActionHold
}

// Strength qualifies how far into its band the signal landed.
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
)

// Thresholds configure signal classification.
type Thresholds struct {
	MinConfidence int     `json:"min_confidence"`
	StrongBuy     float64 `json:"strong_buy"`
	Buy           float64 `json:"buy"`
	Sell          float64 `json:"sell"`
	StrongSell    float64 `json:"strong_sell"`
}

// DefaultThresholds returns the stock classification thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinConfidence: 45,
		StrongBuy:     3.0,
		Buy:           1.5,
		Sell:          -1.5,
		StrongSell:    -3.0,
	}
}

// Classification is the outcome of classifying a weighted signal.
type Classification struct {
	Action   Action   `json:"action"`
	Strength Strength `json:"strength"`
	Reason   string   `json:"reason,omitempty"`
}

// DefaultWeights returns the nominal factor weights. They intentionally
// sum to 1.05: confidence is computed relative to this configured total
// rather than a strict 100%.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		FactorTechnical:   0.40,
		FactorSentiment:   0.08,
		FactorOnChain:     0.15,
		FactorDerivatives: 0.27,
		FactorMacro:       0.05,
		FactorSmartMoney:  0.05,
		FactorCoinGecko:   0.02,
		FactorFearGreed:   0.02,
		FactorNews:        0.01,
	}
}
