package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker reports the state of the most recent backfill run over
// HTTP, for supervisors that gate live trading on a completed warmup.
type HealthChecker struct {
	mu           sync.RWMutex
	lastBackfill time.Time
	lastStage    string
	errors       []string
}

// HealthStatus is the JSON payload served by the health endpoint.
type HealthStatus struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	LastBackfill time.Time `json:"last_backfill"`
	LastStage    string    `json:"last_stage"`
	Uptime       string    `json:"uptime"`
	Errors       []string  `json:"errors,omitempty"`
}

// NewHealthChecker creates a health checker with no recorded runs.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// RecordBackfill stores the terminal stage of a backfill run.
func (h *HealthChecker) RecordBackfill(stage string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastBackfill = time.Now()
	h.lastStage = stage
}

// AddError appends an error message to the health report.
func (h *HealthChecker) AddError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if len(h.errors) > 0 {
		status = "unhealthy"
		w.WriteHeader(http.StatusInternalServerError)
	}

	health := HealthStatus{
		Status:       status,
		Timestamp:    time.Now(),
		LastBackfill: h.lastBackfill,
		LastStage:    h.lastStage,
		Uptime:       time.Since(startTime).String(),
		Errors:       h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
