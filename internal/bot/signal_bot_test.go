package bot

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/futures-signal-bot/internal/config"
	"github.com/ducminhle1904/futures-signal-bot/internal/decision"
	"github.com/ducminhle1904/futures-signal-bot/internal/exchange"
	"github.com/ducminhle1904/futures-signal-bot/internal/monitoring"
	"github.com/ducminhle1904/futures-signal-bot/internal/risk"
	"github.com/ducminhle1904/futures-signal-bot/internal/scheduler"
	"github.com/ducminhle1904/futures-signal-bot/internal/scoring"
	"github.com/ducminhle1904/futures-signal-bot/internal/sizing"
)

type stubProvider struct {
	meta   map[string]*exchange.SymbolMeta
	prices map[string]float64
	margin float64
}

func (p *stubProvider) GetSymbolMeta(ctx context.Context, symbol string) (*exchange.SymbolMeta, error) {
	return p.meta[symbol], nil
}

func (p *stubProvider) GetPrice(ctx context.Context, symbol string) (float64, error) {
	return p.prices[symbol], nil
}

func (p *stubProvider) GetAvailableMargin(ctx context.Context) (float64, error) {
	return p.margin, nil
}

type recordingExecutor struct {
	orders []decision.Order
}

func (e *recordingExecutor) Execute(ctx context.Context, order decision.Order, opp decision.TradingOpportunity) error {
	e.orders = append(e.orders, order)
	return nil
}

func ptr(v float64) *float64 { return &v }

func newTestBot(t *testing.T, provider *stubProvider, factors FactorSource, executor Executor) *SignalBot {
	t.Helper()

	log := zerolog.Nop()
	scorer := scoring.NewEngine(scoring.DefaultWeights(), log)
	sizer := sizing.NewSizer(provider, log)
	engine := decision.NewEngine(scorer, sizer, decision.Config{}, log)

	cfg := &config.BotConfig{
		Symbols:      []string{"BTCUSDT"},
		ScanInterval: "5m",
	}

	return &SignalBot{
		cfg:      cfg,
		provider: provider,
		engine:   engine,
		riskMgr:  risk.NewManager(risk.DefaultLimits(), 10000, nil, log),
		factors:  factors,
		executor: executor,
		sched:    scheduler.New(log),
		health:   monitoring.NewHealthChecker(),
		log:      log,
		stopChan: make(chan struct{}),
	}
}

func btcProvider() *stubProvider {
	return &stubProvider{
		meta: map[string]*exchange.SymbolMeta{
			"BTCUSDT": {Symbol: "BTCUSDT", StepSize: 0.001, MinQty: 0.001, MinNotional: 5, Precision: 3},
		},
		prices: map[string]float64{"BTCUSDT": 50000},
		margin: 200,
	}
}

// TestRunCycle_ExecutesStrongSignal verifies a strong signal flows
// through sizing, validation, and the risk gate to the executor, and
// that the resulting exposure is tracked.
func TestRunCycle_ExecutesStrongSignal(t *testing.T) {
	factors := StaticFactorSource{
		"BTCUSDT": {
			scoring.FactorTechnical:   ptr(4.0),
			scoring.FactorDerivatives: ptr(4.0),
			scoring.FactorOnChain:     ptr(4.0),
		},
	}

	executor := &recordingExecutor{}
	b := newTestBot(t, btcProvider(), factors, executor)

	b.runCycle()

	require.Len(t, executor.orders, 1)
	order := executor.orders[0]
	assert.Equal(t, "BTCUSDT", order.Symbol)
	assert.Equal(t, exchange.OrderSideBuy, order.Side)
	assert.Equal(t, "MARKET", order.Type)

	assert.Equal(t, 1, b.riskMgr.OpenPositionCount())
}

// TestRunCycle_HoldProducesNoOrders verifies neutral factors yield no
// executor calls.
func TestRunCycle_HoldProducesNoOrders(t *testing.T) {
	factors := StaticFactorSource{
		"BTCUSDT": {scoring.FactorTechnical: ptr(0.1)},
	}

	executor := &recordingExecutor{}
	b := newTestBot(t, btcProvider(), factors, executor)

	b.runCycle()

	assert.Empty(t, executor.orders)
	assert.Equal(t, 0, b.riskMgr.OpenPositionCount())
}

// TestDispatch_RiskVetoBlocksExecution verifies the portfolio risk
// gate runs after validation and can block an otherwise executable
// opportunity.
func TestDispatch_RiskVetoBlocksExecution(t *testing.T) {
	factors := StaticFactorSource{
		"BTCUSDT": {
			scoring.FactorTechnical:   ptr(4.0),
			scoring.FactorDerivatives: ptr(4.0),
			scoring.FactorOnChain:     ptr(4.0),
		},
	}

	executor := &recordingExecutor{}
	provider := btcProvider()
	provider.margin = 10000 // sized notional will exceed the 1000 USD position cap
	b := newTestBot(t, provider, factors, executor)

	limits := risk.DefaultLimits()
	limits.MaxPositionSizeUSD = 100
	b.riskMgr.UpdateLimits(limits)

	b.runCycle()

	assert.Empty(t, executor.orders)
	assert.Equal(t, 0, b.riskMgr.OpenPositionCount())
}

// TestRunCycle_SignalOnlyMode verifies a nil executor means signals
// are logged but never tracked as positions.
func TestRunCycle_SignalOnlyMode(t *testing.T) {
	factors := StaticFactorSource{
		"BTCUSDT": {
			scoring.FactorTechnical:   ptr(4.0),
			scoring.FactorDerivatives: ptr(4.0),
			scoring.FactorOnChain:     ptr(4.0),
		},
	}

	b := newTestBot(t, btcProvider(), factors, nil)
	b.runCycle()

	assert.Equal(t, 0, b.riskMgr.OpenPositionCount())
}
