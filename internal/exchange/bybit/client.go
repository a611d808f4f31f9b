package bybit

import (
	"context"
	"strconv"
	"sync"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	boterrors "github.com/ducminhle1904/futures-signal-bot/internal/errors"
)

// Client wraps the Bybit API client behind a rate limiter and a
// circuit breaker so a flapping exchange cannot stall or hammer the
// decision cycle.
type Client struct {
	httpClient *bybit_api.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	category   string
	log        zerolog.Logger

	metaMu    sync.RWMutex
	metaCache map[string]cachedMeta

	testnet bool
	demo    bool
}

// Config holds the configuration for the Bybit client
type Config struct {
	APIKey    string
	APISecret string
	Testnet   bool
	Demo      bool // Demo trading environment
	Category  string

	// RequestsPerSecond bounds outbound REST calls. Zero means the
	// default of 10 req/s with a burst of 5.
	RequestsPerSecond float64
}

// NewClient creates a new Bybit client
func NewClient(cfg Config, log zerolog.Logger) *Client {
	var baseURL string
	if cfg.Demo {
		// Demo trading environment (paper trading)
		baseURL = "https://api-demo.bybit.com"
	} else if cfg.Testnet {
		baseURL = bybit_api.TESTNET
	} else {
		baseURL = bybit_api.MAINNET
	}

	httpClient := bybit_api.NewBybitHttpClient(
		cfg.APIKey,
		cfg.APISecret,
		bybit_api.WithBaseURL(baseURL),
	)

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	category := cfg.Category
	if category == "" {
		category = "linear"
	}

	clog := log.With().Str("component", "bybit").Logger()

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "bybit-rest",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			clog.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	client := &Client{
		httpClient: httpClient,
		breaker:    breaker,
		limiter:    rate.NewLimiter(rate.Limit(rps), 5),
		category:   category,
		log:        clog,
		metaCache:  make(map[string]cachedMeta),
		testnet:    cfg.Testnet,
		demo:       cfg.Demo,
	}

	clog.Info().
		Str("environment", client.GetEnvironment()).
		Str("category", category).
		Msg("Bybit client initialized")

	return client
}

// GetEnvironment returns a string describing the current environment
func (c *Client) GetEnvironment() string {
	if c.demo {
		return "demo"
	} else if c.testnet {
		return "testnet"
	}
	return "mainnet"
}

// call waits for rate-limit headroom, then runs the request through
// the circuit breaker. Failures come back categorized so callers can
// tell credential problems from transient exchange trouble.
func (c *Client) call(ctx context.Context, operation string, fn func() (interface{}, error)) (interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, boterrors.Wrap(err, boterrors.ErrorCategoryTimeout, "bybit", operation)
	}
	result, err := c.breaker.Execute(fn)
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, boterrors.Wrap(err, boterrors.ErrorCategoryRateLimit, "bybit", operation)
		}
		return nil, boterrors.Categorize(err, "bybit", operation)
	}
	return result, nil
}

func parseFloat64(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
