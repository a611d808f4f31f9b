package bot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ducminhle1904/futures-signal-bot/internal/config"
	"github.com/ducminhle1904/futures-signal-bot/internal/decision"
	"github.com/ducminhle1904/futures-signal-bot/internal/exchange"
	"github.com/ducminhle1904/futures-signal-bot/internal/exchange/bybit"
	"github.com/ducminhle1904/futures-signal-bot/internal/monitoring"
	"github.com/ducminhle1904/futures-signal-bot/internal/notifications"
	"github.com/ducminhle1904/futures-signal-bot/internal/risk"
	"github.com/ducminhle1904/futures-signal-bot/internal/scheduler"
	"github.com/ducminhle1904/futures-signal-bot/internal/scoring"
	"github.com/ducminhle1904/futures-signal-bot/internal/sizing"
)

// cycleTimeout bounds one full scan cycle end to end.
const cycleTimeout = 60 * time.Second

// Executor receives validated, risk-approved orders. The stock
// executor only logs; a live implementation would place the order.
type Executor interface {
	Execute(ctx context.Context, order decision.Order, opp decision.TradingOpportunity) error
}

// Provider is the market access the bot needs: instrument metadata,
// prices, and account margin.
type Provider interface {
	exchange.MarketDataProvider
	exchange.AccountProvider
}

// SignalBot wires the scan pipeline together: factor scores in,
// ranked opportunities out, risk gates in between.
type SignalBot struct {
	cfg      *config.BotConfig
	provider Provider
	engine   *decision.Engine
	riskMgr  *risk.Manager
	factors  FactorSource
	executor Executor
	notifier notifications.Notifier
	sched    *scheduler.Scheduler
	health   *monitoring.HealthChecker
	httpSrv  *http.Server
	log      zerolog.Logger

	running  bool
	stopChan chan struct{}
}

// NewSignalBot assembles a bot from configuration. factors supplies
// the per-symbol scores each cycle; executor may be nil for
// signal-only operation.
func NewSignalBot(cfg *config.BotConfig, factors FactorSource, executor Executor, log zerolog.Logger) (*SignalBot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if factors == nil {
		return nil, fmt.Errorf("factor source is required")
	}

	client := bybit.NewClient(bybit.Config{
		APIKey:            cfg.Exchange.Bybit.APIKey,
		APISecret:         cfg.Exchange.Bybit.APISecret,
		Testnet:           cfg.Exchange.Bybit.Testnet,
		Demo:              cfg.Exchange.Bybit.Demo,
		Category:          cfg.Exchange.Bybit.Category,
		RequestsPerSecond: cfg.Exchange.Bybit.RequestsPerSecond,
	}, log)

	weights := cfg.Scoring.Weights
	if len(weights) == 0 {
		weights = scoring.DefaultWeights()
	}
	decisionCfg := cfg.Decision
	if cfg.Scoring.Thresholds != nil {
		decisionCfg.Thresholds = *cfg.Scoring.Thresholds
	}

	scorer := scoring.NewEngine(weights, log)
	sizer := sizing.NewSizer(client, log)
	engine := decision.NewEngine(scorer, sizer, decisionCfg, log)

	var notifier notifications.Notifier
	if n := cfg.Notifications; n != nil && n.Enabled {
		notifier = notifications.NewTelegramNotifier(n.TelegramToken, n.TelegramChat)
	}

	riskMgr := risk.NewManager(cfg.Risk.Limits, cfg.Risk.InitialBalance, notifier, log)

	bot := &SignalBot{
		cfg:      cfg,
		provider: client,
		engine:   engine,
		riskMgr:  riskMgr,
		factors:  factors,
		executor: executor,
		notifier: notifier,
		sched:    scheduler.New(log),
		health:   monitoring.NewHealthChecker(),
		log:      log.With().Str("component", "bot").Logger(),
		stopChan: make(chan struct{}),
	}

	// Keep risk metrics fresh between scans.
	if err := bot.sched.AddJob("@every 60s", riskMgr); err != nil {
		return nil, fmt.Errorf("failed to register risk monitor: %w", err)
	}

	return bot, nil
}

// RiskManager exposes the bot's risk state for reporting.
func (b *SignalBot) RiskManager() *risk.Manager {
	return b.riskMgr
}

// Start launches the scan loop, the risk monitor, and the optional
// metrics listener, then returns.
func (b *SignalBot) Start() error {
	if b.running {
		return fmt.Errorf("bot already running")
	}
	b.running = true

	b.sched.Start()

	if b.cfg.Monitoring.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", monitoring.NewMetricsHandler())
		mux.Handle("/health", b.health)
		b.httpSrv = &http.Server{Addr: b.cfg.Monitoring.ListenAddr, Handler: mux}
		go func() {
			if err := b.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				b.log.Error().Err(err).Msg("Monitoring listener failed")
				b.health.RecordFault(fmt.Sprintf("monitoring listener: %v", err))
			}
		}()
	}

	fmt.Printf("🚀 Signal bot started: %d symbols, scanning every %s\n", len(b.cfg.Symbols), b.cfg.ScanInterval)
	b.log.Info().
		Strs("symbols", b.cfg.Symbols).
		Str("interval", b.cfg.ScanInterval).
		Msg("Signal bot started")

	go b.scanLoop()
	return nil
}

// Stop shuts the loop, the scheduler, and the listener down and waits
// briefly for in-flight work.
func (b *SignalBot) Stop() {
	if !b.running {
		return
	}
	b.running = false
	close(b.stopChan)

	b.sched.Stop()

	if b.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.httpSrv.Shutdown(ctx); err != nil {
			b.log.Warn().Err(err).Msg("Monitoring listener shutdown failed")
		}
	}

	fmt.Printf("🛑 Signal bot stopped\n")
	b.log.Info().Msg("Signal bot stopped")
}

func (b *SignalBot) scanLoop() {
	// First scan immediately; the ticker covers the rest.
	b.runCycle()

	ticker := time.NewTicker(b.cfg.ScanIntervalDuration())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.runCycle()
		case <-b.stopChan:
			b.log.Info().Msg("Stop signal received, ending scan loop")
			return
		}
	}
}

// runCycle performs one full scan: gather factors, rank
// opportunities, pass survivors through the risk gate, hand them to
// the executor.
func (b *SignalBot) runCycle() {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("Scan cycle panicked")
			monitoring.RecordError("panic")
		}
	}()

	started := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	inputs, err := b.factors.Factors(ctx, b.cfg.Symbols)
	if err != nil {
		b.log.Warn().Err(err).Msg("Factor source unavailable, skipping cycle")
		monitoring.RecordError("factor_source")
		return
	}

	availableMargin, err := b.provider.GetAvailableMargin(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("Could not fetch available margin, skipping cycle")
		b.health.SetConnected(false)
		monitoring.RecordError("account")
		return
	}
	b.health.SetConnected(true)

	opportunities := b.engine.GetOptimalSymbols(ctx, b.cfg.Symbols, inputs, availableMargin)

	for i := range opportunities {
		opp := &opportunities[i]
		monitoring.RecordSignal(opp.Symbol, string(opp.Action), opp.Scoring.WeightedScore, opp.Confidence)
		monitoring.UpdatePrice(opp.Symbol, opp.Sizing.EntryPrice)
		b.dispatch(ctx, opp)
	}

	b.health.RecordScan()
	b.health.SetCriticalAlerts(b.criticalAlertCount())
	monitoring.RecordScanDuration(time.Since(started).Seconds())

	b.log.Info().
		Int("opportunities", len(opportunities)).
		Dur("took", time.Since(started)).
		Msg("Scan cycle complete")
}

// dispatch runs one opportunity through the execution gates and the
// portfolio risk veto, then hands it to the executor.
func (b *SignalBot) dispatch(ctx context.Context, opp *decision.TradingOpportunity) {
	maxPositions := b.riskMgr.Limits().MaxOpenPositions
	if ok, reason := decision.ValidateOpportunity(opp, b.riskMgr.OpenPositionCount(), maxPositions); !ok {
		b.log.Info().Str("symbol", opp.Symbol).Str("reason", reason).Msg("Opportunity rejected by validation")
		monitoring.RecordBlockedTrade("validation")
		return
	}

	if ok, reason := b.riskMgr.ShouldAllowTrade(opp.Symbol, opp.Sizing.Quantity, opp.Sizing.EntryPrice, opp.Side); !ok {
		b.log.Warn().Str("symbol", opp.Symbol).Str("reason", reason).Msg("Opportunity vetoed by risk manager")
		monitoring.RecordBlockedTrade("risk")
		return
	}

	order := decision.PrepareOrder(opp)
	if order == nil {
		b.log.Warn().Str("symbol", opp.Symbol).Msg("Opportunity incomplete, no order prepared")
		monitoring.RecordBlockedTrade("incomplete")
		return
	}

	monitoring.RecordOpportunity(opp.Symbol, string(opp.Side))

	if b.notifier != nil {
		message := notifications.FormatOpportunity(
			opp.Symbol, string(opp.Side), opp.Confidence,
			opp.Scoring.WeightedScore, opp.Sizing.Quantity,
			opp.Sizing.NotionalUSD, opp.Sizing.EntryPrice,
		)
		go func() {
			if err := b.notifier.SendAlert("success", message); err != nil {
				b.log.Warn().Err(err).Msg("Failed to push opportunity notification")
			}
		}()
	}

	if b.executor == nil {
		b.log.Info().
			Str("symbol", order.Symbol).
			Str("side", string(order.Side)).
			Str("qty", order.Quantity).
			Float64("notional", order.NotionalUSD).
			Msg("Signal-only mode, order not executed")
		return
	}

	if err := b.executor.Execute(ctx, *order, *opp); err != nil {
		b.log.Error().Err(err).Str("symbol", order.Symbol).Msg("Executor failed")
		monitoring.RecordError("executor")
		return
	}

	// Track the new exposure so subsequent gates see it.
	b.riskMgr.UpdatePosition(opp.Symbol, risk.PositionRisk{
		Symbol:          opp.Symbol,
		Side:            opp.Side,
		Quantity:        opp.Sizing.Quantity,
		AveragePrice:    opp.Sizing.EntryPrice,
		CurrentPrice:    opp.Sizing.EntryPrice,
		PositionSizeUSD: opp.Sizing.NotionalUSD,
	})
}

func (b *SignalBot) criticalAlertCount() int {
	count := 0
	for _, alert := range b.riskMgr.GetAlerts() {
		if alert.Severity == risk.SeverityCritical && !alert.Acknowledged {
			count++
		}
	}
	return count
}
