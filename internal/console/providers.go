// Package console wires the catalog console from configuration.
package console

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	authclient "github.com/tair/catalog-console/internal/auth/client"
	catalogclient "github.com/tair/catalog-console/internal/catalog/client"
	"github.com/tair/catalog-console/internal/config"
	"github.com/tair/catalog-console/internal/remote"
	"github.com/tair/catalog-console/internal/session"
	"github.com/tair/catalog-console/internal/web"
	"github.com/tair/catalog-console/kafka"
)

// ProvideRemoteMetrics registers the remote call metrics on reg
func ProvideRemoteMetrics(reg *prometheus.Registry) *remote.Metrics {
	return remote.NewMetrics(reg)
}

// ProvideRemoteClient provides the breaker-guarded client shared by both gateways
func ProvideRemoteClient(cfg *config.Config, metrics *remote.Metrics) *remote.Client {
	return remote.New(remote.Options{
		BaseURL: cfg.CatalogBaseURL,
		Timeout: cfg.CatalogTimeout,
		Breaker: remote.NewCircuitBreaker("catalog", cfg.BreakerMaxFailures, cfg.BreakerOpenTimeout),
		Metrics: metrics,
	})
}

// ProvideSessionBackend uses Redis when a client is given and process memory otherwise
func ProvideSessionBackend(redisClient *redis.Client) session.Backend {
	if redisClient == nil {
		return session.NewMemoryBackend()
	}
	return session.NewRedisBackend(redisClient)
}

func ProvideAuthClient(cfg *config.Config, rc *remote.Client, store *session.Store) *authclient.AuthServiceClient {
	return authclient.NewAuthServiceClient(rc, store, cfg.LoginExpiresInMins)
}

func ProvideCategoryCache(cfg *config.Config, redisClient *redis.Client) catalogclient.CategoryCache {
	return catalogclient.NewRedisCategoryCache(redisClient, cfg.CatalogBaseURL, cfg.CategoryCacheTTL)
}

// ProvideAuditPublisher keeps a nil publisher a nil interface
func ProvideAuditPublisher(publisher *kafka.Publisher) web.AuditPublisher {
	if publisher == nil {
		return nil
	}
	return publisher
}

func ProvideHealthChecker(cfg *config.Config, rc *remote.Client, redisClient *redis.Client) *web.HealthChecker {
	return web.NewHealthChecker(cfg.ServiceName, rc, redisClient)
}

func ProvideRateLimiter(cfg *config.Config, redisClient *redis.Client) *web.RateLimiter {
	return web.NewRateLimiter(redisClient, "login", cfg.LoginRateLimit, cfg.LoginRateWindow, cfg.TrustedProxies)
}

func ProvideHTTPMetrics(reg *prometheus.Registry) *web.HTTPMetrics {
	return web.NewHTTPMetrics(reg)
}

// ProvideServerOptions maps configuration onto the HTTP surface; /metrics
// serves reg
func ProvideServerOptions(cfg *config.Config, reg *prometheus.Registry) web.Options {
	var metricsHandler http.Handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return web.Options{
		ServiceName:        cfg.ServiceName,
		CookieName:         cfg.SessionCookieName,
		CookieSecure:       cfg.SessionCookieSecure,
		RequestTimeout:     cfg.RequestTimeout,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MetricsHandler:     metricsHandler,
		EnableTracing:      cfg.TracingEnabled,
	}
}
