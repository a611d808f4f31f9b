package sizing

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ducminhle1904/futures-signal-bot/internal/exchange"
)

// stepTolerance absorbs float64 rounding when checking step alignment.
const stepTolerance = 1e-9

// Sizer turns a desired margin+leverage into an exchange-executable
// quantity using the symbol's lot-size constraints.
type Sizer struct {
	provider       exchange.MarketDataProvider
	log            zerolog.Logger
	fetchTimeout   time.Duration
	maxConcurrency int
}

// Option configures a Sizer.
type Option func(*Sizer)

// WithFetchTimeout bounds the per-symbol meta/price fetch so one slow
// network call cannot stall a whole decision cycle.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Sizer) { s.fetchTimeout = d }
}

// WithMaxConcurrency bounds the fan-out width of BuildMultipleSizings.
func WithMaxConcurrency(n int) Option {
	return func(s *Sizer) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// NewSizer creates a position sizer backed by the given provider.
func NewSizer(provider exchange.MarketDataProvider, log zerolog.Logger, opts ...Option) *Sizer {
	s := &Sizer{
		provider:       provider,
		log:            log.With().Str("component", "sizing").Logger(),
		fetchTimeout:   5 * time.Second,
		maxConcurrency: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RoundToStepSize floors x to the nearest multiple of step. The result
// never exceeds x: rounding up could exceed committed margin.
func RoundToStepSize(x, step float64) float64 {
	if step <= 0 {
		return x
	}
	return math.Floor(x/step+stepTolerance) * step
}

// BuildOrderSizing computes an exchange-executable quantity for the
// input, or a typed rejection when no valid quantity exists for this
// margin/leverage combination.
//
// Clamping up to minQty can silently break the margin budget computed
// from the desired notional, so the final quantity is re-validated
// against every constraint before an OK result is returned.
func (s *Sizer) BuildOrderSizing(ctx context.Context, input Input) (Result, error) {
	if input.Leverage <= 0 {
		return reject(fmt.Sprintf("invalid leverage %.2f", input.Leverage)), nil
	}
	if input.RiskPercentage <= 0 || input.RiskPercentage > 1 {
		return reject(fmt.Sprintf("invalid risk percentage %.2f", input.RiskPercentage)), nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	meta, err := s.provider.GetSymbolMeta(fetchCtx, input.Symbol)
	if err != nil {
		return Result{}, fmt.Errorf("symbol meta for %s: %w", input.Symbol, err)
	}
	price, err := s.provider.GetPrice(fetchCtx, input.Symbol)
	if err != nil {
		return Result{}, fmt.Errorf("price for %s: %w", input.Symbol, err)
	}
	if price <= 0 {
		return Result{}, fmt.Errorf("non-positive price %.8f for %s", price, input.Symbol)
	}

	availableMargin := input.MaxMarginUSD * input.RiskPercentage
	desiredNotional := availableMargin * input.Leverage
	rawQty := desiredNotional / price

	qty := RoundToStepSize(rawQty, meta.StepSize)
	if qty < meta.MinQty {
		// Clamp up to the exchange minimum. This may push required
		// margin past the original target; the margin check below
		// rejects the sizing if it does.
		qty = meta.MinQty
	}

	notional := qty * price
	if notional < meta.MinNotional {
		return reject(fmt.Sprintf(
			"notional %.2f below minimum %.2f for %s (margin %.2f at %.0fx)",
			notional, meta.MinNotional, input.Symbol, availableMargin, input.Leverage)), nil
	}

	requiredMargin := notional / input.Leverage
	if requiredMargin > availableMargin {
		return reject(fmt.Sprintf(
			"required margin %.2f exceeds available %.2f for %s",
			requiredMargin, availableMargin, input.Symbol)), nil
	}

	// Final invariant re-checks: never return OK on a size we only
	// wish were true.
	if qty < meta.MinQty {
		return reject(fmt.Sprintf("final quantity %.8f below minimum %.8f", qty, meta.MinQty)), nil
	}
	if notional < meta.MinNotional {
		return reject(fmt.Sprintf("final notional %.2f below minimum %.2f", notional, meta.MinNotional)), nil
	}

	return Result{
		OK:             true,
		Quantity:       qty,
		NotionalUSD:    notional,
		EntryPrice:     price,
		RequiredMargin: requiredMargin,
		Meta:           meta,
	}, nil
}

// BuildMultipleSizings maps the single-symbol algorithm over many
// inputs with bounded concurrency. A symbol whose provider fetch fails
// gets a rejection result; no symbol's failure affects another's.
func (s *Sizer) BuildMultipleSizings(ctx context.Context, inputs []Input) map[string]Result {
	results := make(map[string]Result, len(inputs))

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.maxConcurrency)
	)

	for _, input := range inputs {
		wg.Add(1)
		go func(in Input) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := s.BuildOrderSizing(ctx, in)
			if err != nil {
				s.log.Warn().Err(err).Str("symbol", in.Symbol).Msg("Sizing fetch failed, skipping symbol")
				result = reject(fmt.Sprintf("market data unavailable: %v", err))
			}

			mu.Lock()
			results[in.Symbol] = result
			mu.Unlock()
		}(input)
	}

	wg.Wait()
	return results
}

// FilterExecutableSymbols returns the symbols whose sizing succeeded.
func FilterExecutableSymbols(results map[string]Result) []string {
	executable := make([]string, 0, len(results))
	for symbol, r := range results {
		if r.OK {
			executable = append(executable, symbol)
		}
	}
	return executable
}
