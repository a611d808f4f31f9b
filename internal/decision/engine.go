package decision

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ducminhle1904/futures-signal-bot/internal/exchange"
	"github.com/ducminhle1904/futures-signal-bot/internal/scoring"
	"github.com/ducminhle1904/futures-signal-bot/internal/sizing"
)

// Engine classifies per-symbol signals, requests sizing, and ranks the
// resulting opportunities across symbols.
type Engine struct {
	scorer *scoring.Engine
	sizer  *sizing.Sizer
	cfg    Config
	log    zerolog.Logger
}

// NewEngine creates a decision engine. The config is completed with
// defaults before use.
func NewEngine(scorer *scoring.Engine, sizer *sizing.Sizer, cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		scorer: scorer,
		sizer:  sizer,
		cfg:    cfg.ApplyDefaults(),
		log:    log.With().Str("component", "decision").Logger(),
	}
}

// Config returns the engine's completed configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ProcessSymbol runs the per-symbol pipeline: score, classify, size.
// A HOLD classification or a failed sizing yields nil. Any failure is
// confined to this symbol: the caller's batch continues.
func (e *Engine) ProcessSymbol(ctx context.Context, symbol string, inputs map[string]*float64, availableMargin float64) (opp *TradingOpportunity) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("symbol", symbol).Interface("panic", r).Msg("Symbol pipeline panicked, skipping")
			opp = nil
		}
	}()

	result := e.scorer.Score(inputs)
	classification := scoring.ClassifySignal(result.WeightedScore, result.ConfidencePct, e.cfg.Thresholds)

	if !classification.Action.IsActionable() {
		e.log.Debug().
			Str("symbol", symbol).
			Float64("score", result.WeightedScore).
			Int("confidence", result.ConfidencePct).
			Str("reason", classification.Reason).
			Msg("No opportunity this cycle")
		return nil
	}

	side := exchange.OrderSideSell
	if classification.Action.IsBuy() {
		side = exchange.OrderSideBuy
	}

	marginForTrade := availableMargin * e.cfg.MaxMarginPerTrade

	sizingResult, err := e.sizer.BuildOrderSizing(ctx, sizing.Input{
		Symbol:         symbol,
		Side:           side,
		Leverage:       e.cfg.Leverage,
		MaxMarginUSD:   marginForTrade,
		RiskPercentage: e.cfg.RiskPercentage,
	})
	if err != nil {
		e.log.Warn().Err(err).Str("symbol", symbol).Msg("Sizing unavailable, skipping symbol this cycle")
		return nil
	}
	if !sizingResult.OK {
		e.log.Info().Str("symbol", symbol).Str("reason", sizingResult.Reason).Msg("Symbol not executable this cycle")
		return nil
	}

	return &TradingOpportunity{
		Symbol:       symbol,
		Side:         side,
		Leverage:     e.cfg.Leverage,
		MaxMarginUSD: marginForTrade,
		Sizing:       sizingResult,
		Scoring:      result,
		Action:       classification.Action,
		Strength:     classification.Strength,
		Confidence:   result.ConfidencePct,
	}
}

// GetOptimalSymbols processes all symbols concurrently, collects the
// non-nil opportunities, ranks them (strong signals first, then by
// confidence), and truncates to MaxTrades.
func (e *Engine) GetOptimalSymbols(ctx context.Context, symbols []string, inputsBySymbol map[string]map[string]*float64, availableMargin float64) []TradingOpportunity {
	var (
		mu            sync.Mutex
		wg            sync.WaitGroup
		sem           = make(chan struct{}, e.cfg.MaxConcurrency)
		opportunities []TradingOpportunity
	)

	for _, symbol := range symbols {
		inputs, ok := inputsBySymbol[symbol]
		if !ok {
			e.log.Debug().Str("symbol", symbol).Msg("No scoring inputs, skipping symbol")
			continue
		}

		wg.Add(1)
		go func(sym string, in map[string]*float64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if opp := e.ProcessSymbol(ctx, sym, in, availableMargin); opp != nil {
				mu.Lock()
				opportunities = append(opportunities, *opp)
				mu.Unlock()
			}
		}(symbol, inputs)
	}

	wg.Wait()

	sort.SliceStable(opportunities, func(i, j int) bool {
		si := opportunities[i].Strength == scoring.StrengthStrong
		sj := opportunities[j].Strength == scoring.StrengthStrong
		if si != sj {
			return si
		}
		return opportunities[i].Confidence > opportunities[j].Confidence
	})

	if len(opportunities) > e.cfg.MaxTrades {
		opportunities = opportunities[:e.cfg.MaxTrades]
	}

	e.log.Info().
		Int("symbols", len(symbols)).
		Int("opportunities", len(opportunities)).
		Msg("Decision cycle complete")

	return opportunities
}
