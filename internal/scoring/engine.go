package scoring

import (
	"math"
	"sort"

	"github.com/rs/zerolog"
)

// Engine aggregates named factor scores into one weighted signal plus
// a confidence percentage. Calls are pure and safe to run concurrently
// per symbol.
type Engine struct {
	weights map[string]float64
	log     zerolog.Logger
}

// NewEngine creates a scoring engine. A nil weights map falls back to
// the default factor weights.
func NewEngine(weights map[string]float64, log zerolog.Logger) *Engine {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Engine{
		weights: weights,
		log:     log.With().Str("component", "scoring").Logger(),
	}
}

// SanitizeScore coerces non-finite numeric input to nil. This is the
// only place invalid numbers are allowed to enter the pipeline, so
// downstream code never branches on NaN.
func SanitizeScore(score *float64) *float64 {
	if score == nil {
		return nil
	}
	if math.IsNaN(*score) || math.IsInf(*score, 0) {
		return nil
	}
	return score
}

// BuildFactors turns raw per-factor inputs into a fresh FactorScore
// slice, sanitizing every value on the way in. Factors without a
// configured weight are ignored. The result is ordered by factor name
// so scoring output is deterministic.
func (e *Engine) BuildFactors(inputs map[string]*float64) []FactorScore {
	factors := make([]FactorScore, 0, len(e.weights))
	for name, weight := range e.weights {
		score := SanitizeScore(inputs[name])
		effectiveWeight := weight
		if score == nil {
			effectiveWeight = 0
		}
		factors = append(factors, FactorScore{
			Name:           name,
			Score:          score,
			Weight:         effectiveWeight,
			OriginalWeight: weight,
		})
	}
	sort.Slice(factors, func(i, j int) bool { return factors[i].Name < factors[j].Name })
	return factors
}

// ComputeWeightedSignal aggregates the factors into a weighted score
// and confidence. Factors with no data contribute to neither numerator
// nor denominator: absence is neutral, never a synthetic negative.
func (e *Engine) ComputeWeightedSignal(factors []FactorScore) ScoringResult {
	var numerator, denominator, totalWeight float64
	validFactors := 0

	for i := range factors {
		f := &factors[i]
		totalWeight += f.OriginalWeight

		score := SanitizeScore(f.Score)
		if score == nil {
			f.Score = nil
			f.Weight = 0
			e.log.Debug().Str("factor", f.Name).Msg("Factor has no data, neutralized")
			continue
		}

		numerator += *score * f.Weight
		denominator += f.Weight
		validFactors++
	}

	result := ScoringResult{
		Factors:      factors,
		TotalWeight:  totalWeight,
		ValidFactors: validFactors,
	}

	if denominator == 0 {
		return result
	}

	result.WeightedScore = numerator / denominator
	if totalWeight > 0 {
		result.ConfidencePct = int(math.Round(math.Min(100, denominator/totalWeight*100)))
	}

	return result
}

// Score is the full per-symbol scoring call: sanitize raw inputs,
// build the factor set, aggregate.
func (e *Engine) Score(inputs map[string]*float64) ScoringResult {
	return e.ComputeWeightedSignal(e.BuildFactors(inputs))
}
