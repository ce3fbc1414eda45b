package model

import "time"

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// CheckResult is the outcome of a single dependency check.
type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HealthReport aggregates dependency checks.
type HealthReport struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// Healthy reports whether every check passed.
func (h HealthReport) Healthy() bool {
	return h.Status == StatusHealthy
}
