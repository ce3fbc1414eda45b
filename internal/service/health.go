package service

import (
	"context"
	"time"

	"github.com/deppfellow/animedb/internal/model"
	"github.com/rs/zerolog"
)

// Pinger is a dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckTimeout bounds each dependency check.
const HealthCheckTimeout = 5 * time.Second

// HealthService verifies the database and, when configured, Redis.
//
// The database is required: its failure makes the report unhealthy.
// Redis only backs the catalog cache, so its failure is reported but
// does not flip the overall status.
type HealthService struct {
	env   string
	db    Pinger
	cache Pinger
	log   *zerolog.Logger
}

// NewHealthService builds the checker. cache may be nil when Redis is disabled.
func NewHealthService(env string, db, cache Pinger, log *zerolog.Logger) *HealthService {
	return &HealthService{env: env, db: db, cache: cache, log: log}
}

func (h *HealthService) Check(ctx context.Context) model.HealthReport {
	start := time.Now()

	report := model.HealthReport{
		Status:      model.StatusHealthy,
		Timestamp:   start.UTC(),
		Environment: h.env,
		Checks:      make(map[string]model.CheckResult, 2),
	}

	dbResult := h.ping(ctx, "database", h.db)
	report.Checks["database"] = dbResult
	if dbResult.Status != model.StatusHealthy {
		report.Status = model.StatusUnhealthy
	}

	if h.cache != nil {
		report.Checks["redis"] = h.ping(ctx, "redis", h.cache)
	} else {
		report.Checks["redis"] = model.CheckResult{Status: model.StatusDisabled}
	}

	evt := h.log.Info()
	if !report.Healthy() {
		evt = h.log.Warn()
	}
	evt.Dur("total_duration", time.Since(start)).Str("status", report.Status).Msg("health check finished")

	return report
}

func (h *HealthService) ping(ctx context.Context, name string, p Pinger) model.CheckResult {
	ctx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")
		return model.CheckResult{
			Status:       model.StatusUnhealthy,
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return model.CheckResult{
		Status:       model.StatusHealthy,
		ResponseTime: elapsed.String(),
	}
}
