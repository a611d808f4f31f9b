package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Signal pipeline metrics
	signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_signals_total",
			Help: "Total number of signals produced, by action",
		},
		[]string{"symbol", "action"},
	)

	signalConfidence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signal_bot_signal_confidence",
			Help: "Confidence percentage of the latest signal",
		},
		[]string{"symbol"},
	)

	compositeScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signal_bot_composite_score",
			Help: "Composite weighted score of the latest signal",
		},
		[]string{"symbol"},
	)

	scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "signal_bot_scan_duration_seconds",
			Help:    "Duration of one full symbol scan",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Execution metrics
	opportunitiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_opportunities_total",
			Help: "Total number of executable opportunities produced",
		},
		[]string{"symbol", "side"},
	)

	tradesBlockedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_trades_blocked_total",
			Help: "Opportunities vetoed before execution, by gate",
		},
		[]string{"gate"},
	)

	// Risk metrics
	riskAlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_risk_alerts_total",
			Help: "Risk alerts raised, by type and severity",
		},
		[]string{"type", "severity"},
	)

	// Market data metrics
	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signal_bot_current_price",
			Help: "Latest observed price per symbol",
		},
		[]string{"symbol"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_errors_total",
			Help: "Total number of errors, by category",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(signalsTotal)
	prometheus.MustRegister(signalConfidence)
	prometheus.MustRegister(compositeScore)
	prometheus.MustRegister(scanDuration)
	prometheus.MustRegister(opportunitiesTotal)
	prometheus.MustRegister(tradesBlockedTotal)
	prometheus.MustRegister(riskAlertsTotal)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler serves the Prometheus scrape endpoint.
type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordSignal records one classified signal.
func RecordSignal(symbol, action string, score float64, confidence int) {
	signalsTotal.WithLabelValues(symbol, action).Inc()
	signalConfidence.WithLabelValues(symbol).Set(float64(confidence))
	compositeScore.WithLabelValues(symbol).Set(score)
}

// RecordScanDuration records how long a full symbol scan took.
func RecordScanDuration(seconds float64) {
	scanDuration.Observe(seconds)
}

// RecordOpportunity records a sized, executable opportunity.
func RecordOpportunity(symbol, side string) {
	opportunitiesTotal.WithLabelValues(symbol, side).Inc()
}

// RecordBlockedTrade records an opportunity vetoed by the named gate.
func RecordBlockedTrade(gate string) {
	tradesBlockedTotal.WithLabelValues(gate).Inc()
}

// RecordRiskAlert records a raised risk alert.
func RecordRiskAlert(alertType, severity string) {
	riskAlertsTotal.WithLabelValues(alertType, severity).Inc()
}

// UpdatePrice updates the latest price gauge.
func UpdatePrice(symbol string, price float64) {
	currentPrice.WithLabelValues(symbol).Set(price)
}

// RecordError records an error by category.
func RecordError(category string) {
	errorsTotal.WithLabelValues(category).Inc()
}
