package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/tair/catalog-console/internal/remote"
	"github.com/tair/catalog-console/pkg/logger"
)

// Health statuses
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// DependencyHealth represents the health of one dependency
type DependencyHealth struct {
	Name      string                 `json:"name"`
	Status    string                 `json:"status"`
	LatencyMS int64                  `json:"latency_ms"`
	Error     string                 `json:"error,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// ConsoleHealth represents the overall console health
type ConsoleHealth struct {
	Service       string                      `json:"service"`
	Status        string                      `json:"status"`
	Dependencies  map[string]DependencyHealth `json:"dependencies"`
	UptimeSeconds float64                     `json:"uptime_seconds"`
}

// HealthChecker checks the remote catalog and Redis
type HealthChecker struct {
	service   string
	catalog   *remote.Client
	redis     *redis.Client
	startTime time.Time
}

// NewHealthChecker creates a new health checker; redisClient may be nil
func NewHealthChecker(service string, catalog *remote.Client, redisClient *redis.Client) *HealthChecker {
	return &HealthChecker{
		service:   service,
		catalog:   catalog,
		redis:     redisClient,
		startTime: time.Now(),
	}
}

func (h *HealthChecker) checkCatalog(ctx context.Context) DependencyHealth {
	start := time.Now()
	result := DependencyHealth{Name: "catalog", Timestamp: start}
	if h.catalog == nil {
		result.Status = StatusUnhealthy
		result.Error = "catalog client not configured"
		return result
	}

	if breaker := h.catalog.Breaker(); breaker != nil {
		result.Details = map[string]interface{}{"circuit": breaker.Stats()}
	}

	status, err := h.catalog.Ping(ctx, "/products?limit=1&select=id")
	result.LatencyMS = time.Since(start).Milliseconds()
	switch {
	case err != nil:
		result.Status = StatusUnhealthy
		result.Error = fmt.Sprintf("Failed to reach catalog: %v", err)
	case status != http.StatusOK:
		result.Status = StatusUnhealthy
		result.Error = fmt.Sprintf("Unexpected status code: %d", status)
	default:
		result.Status = StatusHealthy
	}
	return result
}

func (h *HealthChecker) checkRedis(ctx context.Context) DependencyHealth {
	start := time.Now()
	result := DependencyHealth{Name: "redis", Timestamp: start}

	if h.redis == nil {
		// sessions fall back to process memory
		result.Status = StatusDegraded
		result.Error = "redis not configured, using in-memory sessions"
		return result
	}

	err := h.redis.Ping(ctx).Err()
	result.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		return result
	}
	result.Status = StatusHealthy
	return result
}

// CheckAll checks all dependencies concurrently
func (h *HealthChecker) CheckAll(ctx context.Context) ConsoleHealth {
	deps := make(map[string]DependencyHealth)
	var mu sync.Mutex

	checks := map[string]func(context.Context) DependencyHealth{
		"catalog": h.checkCatalog,
		"redis":   h.checkRedis,
	}

	var g errgroup.Group
	for name, check := range checks {
		g.Go(func() error {
			res := check(ctx)

			mu.Lock()
			deps[name] = res
			mu.Unlock()

			if res.Status == StatusHealthy {
				logger.Debug(ctx).
					Str("dependency", name).
					Int64("latency_ms", res.LatencyMS).
					Msg("Dependency health check")
			} else {
				logger.Warn(ctx).
					Str("dependency", name).
					Str("status", res.Status).
					Str("error", res.Error).
					Msg("Dependency health check failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	return ConsoleHealth{
		Service:       h.service,
		Status:        overallStatus(deps),
		Dependencies:  deps,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
}

// overallStatus is unhealthy when the catalog is down, degraded when anything
// else is not healthy
func overallStatus(deps map[string]DependencyHealth) string {
	if deps["catalog"].Status != StatusHealthy {
		return StatusUnhealthy
	}
	for _, d := range deps {
		if d.Status != StatusHealthy {
			return StatusDegraded
		}
	}
	return StatusHealthy
}

// QuickCheck reports the console itself without touching dependencies
func (h *HealthChecker) QuickCheck() map[string]interface{} {
	return map[string]interface{}{
		"status":    StatusHealthy,
		"service":   h.service,
		"uptime":    time.Since(h.startTime).Seconds(),
		"timestamp": time.Now(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.health.QuickCheck())
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	result := s.health.CheckAll(ctx)
	status := http.StatusOK
	if result.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, result)
}
