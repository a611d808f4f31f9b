package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// staleScanThreshold marks the service degraded when no scan has
// completed for this long.
const staleScanThreshold = 10 * time.Minute

// HealthChecker tracks liveness facts the bot reports as it runs.
type HealthChecker struct {
	mu             sync.RWMutex
	lastScan       time.Time
	connected      bool
	criticalAlerts int
	errors         []string
}

// HealthStatus is the JSON body of the health endpoint.
type HealthStatus struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	LastScan       time.Time `json:"last_scan"`
	IsConnected    bool      `json:"is_connected"`
	CriticalAlerts int       `json:"critical_alerts"`
	Uptime         string    `json:"uptime"`
	Errors         []string  `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// RecordScan marks a completed scan cycle.
func (h *HealthChecker) RecordScan() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastScan = time.Now()
}

// SetConnected records whether the exchange connection is up.
func (h *HealthChecker) SetConnected(connected bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connected = connected
}

// SetCriticalAlerts records the current count of critical risk alerts.
func (h *HealthChecker) SetCriticalAlerts(count int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.criticalAlerts = count
}

// RecordFault appends a persistent fault message. Faults flip the
// status to unhealthy until the process restarts.
func (h *HealthChecker) RecordFault(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, message)
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	code := http.StatusOK
	if !h.connected || time.Since(h.lastScan) > staleScanThreshold {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	if len(h.errors) > 0 {
		status = "unhealthy"
		code = http.StatusInternalServerError
	}

	health := HealthStatus{
		Status:         status,
		Timestamp:      time.Now(),
		LastScan:       h.lastScan,
		IsConnected:    h.connected,
		CriticalAlerts: h.criticalAlerts,
		Uptime:         time.Since(startTime).String(),
		Errors:         h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(health)
}
