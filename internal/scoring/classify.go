package scoring

import "fmt"

// ClassifySignal buckets a weighted score against the thresholds.
// The confidence gate is checked first and independently: below
// MinConfidence the result is always HOLD regardless of score
// magnitude, so a signal built on thin data never trades.
func ClassifySignal(weightedScore float64, confidencePct int, th Thresholds) Classification {
	if confidencePct < th.MinConfidence {
		return Classification{
			Action:   ActionHold,
			Strength: StrengthWeak,
			Reason:   fmt.Sprintf("confidence %d%% below minimum %d%%", confidencePct, th.MinConfidence),
		}
	}

	switch {
	case weightedScore >= th.StrongBuy:
		return Classification{Action: ActionStrongBuy, Strength: StrengthStrong}
	case weightedScore >= th.Buy:
		return Classification{Action: ActionBuy, Strength: StrengthModerate}
	case weightedScore <= th.StrongSell:
		return Classification{Action: ActionStrongSell, Strength: StrengthStrong}
	case weightedScore <= th.Sell:
		return Classification{Action: ActionSell, Strength: StrengthModerate}
	default:
		return Classification{
			Action:   ActionHold,
			Strength: StrengthWeak,
			Reason:   fmt.Sprintf("score %.3f inside hold band", weightedScore),
		}
	}
}
