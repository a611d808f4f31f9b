package decision

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/futures-signal-bot/internal/exchange"
	"github.com/ducminhle1904/futures-signal-bot/internal/scoring"
	"github.com/ducminhle1904/futures-signal-bot/internal/sizing"
)

type stubProvider struct {
	metas  map[string]*exchange.SymbolMeta
	prices map[string]float64
	fail   map[string]bool
}

func (p *stubProvider) GetSymbolMeta(_ context.Context, symbol string) (*exchange.SymbolMeta, error) {
	if p.fail[symbol] {
		return nil, fmt.Errorf("connection refused")
	}
	if meta, ok := p.metas[symbol]; ok {
		return meta, nil
	}
	return nil, fmt.Errorf("instrument %s not found", symbol)
}

func (p *stubProvider) GetPrice(_ context.Context, symbol string) (float64, error) {
	if p.fail[symbol] {
		return 0, fmt.Errorf("connection refused")
	}
	if price, ok := p.prices[symbol]; ok {
		return price, nil
	}
	return 0, fmt.Errorf("no ticker data found")
}

func defaultProvider() *stubProvider {
	return &stubProvider{
		metas: map[string]*exchange.SymbolMeta{
			"BTCUSDT": {Symbol: "BTCUSDT", StepSize: 0.001, MinQty: 0.001, MinNotional: 5, Precision: 3},
			"ETHUSDT": {Symbol: "ETHUSDT", StepSize: 0.01, MinQty: 0.01, MinNotional: 5, Precision: 2},
			"ADAUSDT": {Symbol: "ADAUSDT", StepSize: 1, MinQty: 1, MinNotional: 5, Precision: 0},
		},
		prices: map[string]float64{
			"BTCUSDT": 50000,
			"ETHUSDT": 3000,
			"ADAUSDT": 0.40,
		},
		fail: map[string]bool{},
	}
}

func newTestEngine(p *stubProvider, cfg Config) *Engine {
	log := zerolog.Nop()
	scorer := scoring.NewEngine(nil, log)
	sizer := sizing.NewSizer(p, log)
	return NewEngine(scorer, sizer, cfg, log)
}

func ptr(v float64) *float64 { return &v }

func buyInputs() map[string]*float64 {
	// Technical 2.0 + OnChain 1.0 => score 1.727, confidence 52: BUY.
	return map[string]*float64{
		scoring.FactorTechnical: ptr(2.0),
		scoring.FactorOnChain:   ptr(1.0),
	}
}

func strongSellInputs() map[string]*float64 {
	inputs := make(map[string]*float64)
	for name := range scoring.DefaultWeights() {
		inputs[name] = ptr(-3.5)
	}
	return inputs
}

func TestProcessSymbol_Buy(t *testing.T) {
	e := newTestEngine(defaultProvider(), Config{})

	opp := e.ProcessSymbol(context.Background(), "BTCUSDT", buyInputs(), 1000)
	require.NotNil(t, opp)

	assert.Equal(t, exchange.OrderSideBuy, opp.Side)
	assert.Equal(t, scoring.ActionBuy, opp.Action)
	assert.Equal(t, scoring.StrengthModerate, opp.Strength)
	assert.Equal(t, 52, opp.Confidence)
	// 80% of available margin committed by default.
	assert.InDelta(t, 800, opp.MaxMarginUSD, 1e-9)
	assert.True(t, opp.Sizing.OK)
}

func TestProcessSymbol_StrongSell(t *testing.T) {
	e := newTestEngine(defaultProvider(), Config{})

	opp := e.ProcessSymbol(context.Background(), "ETHUSDT", strongSellInputs(), 1000)
	require.NotNil(t, opp)

	assert.Equal(t, exchange.OrderSideSell, opp.Side)
	assert.Equal(t, scoring.ActionStrongSell, opp.Action)
	assert.Equal(t, scoring.StrengthStrong, opp.Strength)
}

// TestProcessSymbol_HoldOnLowConfidence verifies a thin factor set
// yields no opportunity even with a large score.
func TestProcessSymbol_HoldOnLowConfidence(t *testing.T) {
	e := newTestEngine(defaultProvider(), Config{})

	// Only News reports (weight 0.01): confidence ~1%.
	opp := e.ProcessSymbol(context.Background(), "BTCUSDT", map[string]*float64{
		scoring.FactorNews: ptr(5.0),
	}, 1000)
	assert.Nil(t, opp)
}

// TestProcessSymbol_SizingRejection verifies an unexecutable sizing
// produces no opportunity rather than an error.
func TestProcessSymbol_SizingRejection(t *testing.T) {
	e := newTestEngine(defaultProvider(), Config{Leverage: 2})

	// 2.21 available * 0.8 = 1.77 margin: the ADA minimum-notional
	// rejection case.
	opp := e.ProcessSymbol(context.Background(), "ADAUSDT", buyInputs(), 2.2125)
	assert.Nil(t, opp)
}

func TestProcessSymbol_ProviderFailureSkips(t *testing.T) {
	p := defaultProvider()
	p.fail["BTCUSDT"] = true
	e := newTestEngine(p, Config{})

	opp := e.ProcessSymbol(context.Background(), "BTCUSDT", buyInputs(), 1000)
	assert.Nil(t, opp)
}

// TestGetOptimalSymbols_RankingAndTruncation verifies strong signals
// sort ahead of moderate ones and the result respects MaxTrades.
func TestGetOptimalSymbols_RankingAndTruncation(t *testing.T) {
	e := newTestEngine(defaultProvider(), Config{MaxTrades: 2})

	inputsBySymbol := map[string]map[string]*float64{
		"BTCUSDT": buyInputs(),         // moderate, confidence 52
		"ETHUSDT": strongSellInputs(),  // strong, confidence 100
		"ADAUSDT": strongSellInputs(),  // strong, confidence 100
	}

	opps := e.GetOptimalSymbols(context.Background(),
		[]string{"BTCUSDT", "ETHUSDT", "ADAUSDT"}, inputsBySymbol, 1000)

	require.Len(t, opps, 2)
	for _, opp := range opps {
		assert.Equal(t, scoring.StrengthStrong, opp.Strength)
	}
}

// TestGetOptimalSymbols_MissingInputsSkipped verifies symbols without
// scoring inputs are skipped, not errored.
func TestGetOptimalSymbols_MissingInputsSkipped(t *testing.T) {
	e := newTestEngine(defaultProvider(), Config{})

	opps := e.GetOptimalSymbols(context.Background(),
		[]string{"BTCUSDT", "XRPUSDT"},
		map[string]map[string]*float64{"BTCUSDT": buyInputs()}, 1000)

	require.Len(t, opps, 1)
	assert.Equal(t, "BTCUSDT", opps[0].Symbol)
}

// TestGetOptimalSymbols_FailureIsolation verifies one symbol's provider
// failure never aborts the batch.
func TestGetOptimalSymbols_FailureIsolation(t *testing.T) {
	p := defaultProvider()
	p.fail["ETHUSDT"] = true
	e := newTestEngine(p, Config{})

	opps := e.GetOptimalSymbols(context.Background(),
		[]string{"BTCUSDT", "ETHUSDT"},
		map[string]map[string]*float64{
			"BTCUSDT": buyInputs(),
			"ETHUSDT": buyInputs(),
		}, 1000)

	require.Len(t, opps, 1)
	assert.Equal(t, "BTCUSDT", opps[0].Symbol)
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}.ApplyDefaults()

	assert.Equal(t, 5.0, cfg.Leverage)
	assert.Equal(t, 0.8, cfg.MaxMarginPerTrade)
	assert.Equal(t, 2, cfg.MaxTrades)
	assert.Equal(t, 1.0, cfg.RiskPercentage)
	assert.Equal(t, 45, cfg.Thresholds.MinConfidence)

	// Explicit values survive the merge.
	custom := Config{Leverage: 10, MaxTrades: 5}.ApplyDefaults()
	assert.Equal(t, 10.0, custom.Leverage)
	assert.Equal(t, 5, custom.MaxTrades)
}
