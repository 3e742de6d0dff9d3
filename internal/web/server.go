package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/catalog-console/internal/catalog/domain"
	"github.com/tair/catalog-console/internal/session"
	"github.com/tair/catalog-console/kafka"
)

// Catalog is the catalog gateway as used by the pages
type Catalog interface {
	List(ctx context.Context, limit, skip int) (*domain.ProductPage, error)
	GetByID(ctx context.Context, id int) (*domain.Product, error)
	SearchPage(ctx context.Context, query string, limit, skip int) (*domain.ProductPage, error)
	ByCategoryPage(ctx context.Context, name string, limit, skip int) (*domain.ProductPage, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, token string, data domain.CreateProductData) (*domain.Product, error)
	Update(ctx context.Context, token string, id int, data domain.UpdateProductData) (*domain.Product, error)
	Delete(ctx context.Context, token string, id int) (*domain.DeleteResult, error)
}

// AuditPublisher receives an event for every successful catalog mutation
type AuditPublisher interface {
	PublishProductChanged(ctx context.Context, event kafka.ProductChangedEvent) error
}

// Options configures the HTTP surface
type Options struct {
	ServiceName        string
	CookieName         string
	CookieSecure       bool
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
	MetricsHandler     http.Handler // served at /metrics when set
	EnableTracing      bool
}

// Server is the web console: pages, JSON API and operational endpoints
type Server struct {
	opts     Options
	sessions *session.Manager
	catalog  Catalog
	audit    AuditPublisher
	health   *HealthChecker
	limiter  *RateLimiter
	metrics  *HTTPMetrics
	views    *Renderer
}

// NewServer creates the console; audit and limiter may be nil
func NewServer(
	opts Options,
	sessions *session.Manager,
	catalog Catalog,
	audit AuditPublisher,
	health *HealthChecker,
	limiter *RateLimiter,
	metrics *HTTPMetrics,
	views *Renderer,
) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "console_sid"
	}
	return &Server{
		opts:     opts,
		sessions: sessions,
		catalog:  catalog,
		audit:    audit,
		health:   health,
		limiter:  limiter,
		metrics:  metrics,
		views:    views,
	}
}

// Handler builds the router and the middleware chain
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.StrictSlash(true)
	if s.metrics != nil {
		router.Use(s.metrics.Middleware)
	}
	router.Use(SecurityHeadersMiddleware)

	// Operational endpoints
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet).Name("health")
	router.HandleFunc("/health/live", s.handleLive).Methods(http.MethodGet).Name("health-live")
	router.HandleFunc("/health/ready", s.handleReady).Methods(http.MethodGet).Name("health-ready")
	if s.opts.MetricsHandler != nil {
		router.Handle("/metrics", s.opts.MetricsHandler).Methods(http.MethodGet).Name("metrics")
	}
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler).Name("swagger")

	// JSON API
	api := router.PathPrefix("/api").Subrouter()
	api.Use(setupCORS(s.opts.CORSAllowedOrigins))
	api.Use(s.sessionMiddleware)
	s.registerAPIRoutes(api)

	// Pages
	pages := router.NewRoute().Subrouter()
	pages.Use(s.sessionMiddleware)
	s.registerPageRoutes(pages)

	// mux skips router middleware for unmatched requests
	var notFound http.Handler = s.sessionMiddleware(http.HandlerFunc(s.handleNotFound))
	if s.metrics != nil {
		notFound = s.metrics.Middleware(notFound)
	}
	router.NotFoundHandler = notFound

	var h http.Handler = router
	if s.opts.RequestTimeout > 0 {
		h = http.TimeoutHandler(h, s.opts.RequestTimeout, "Request timed out")
	}
	h = LoggingMiddleware(h)
	h = RequestIDMiddleware(h)
	h = RecoveryMiddleware(h)
	if s.opts.EnableTracing {
		h = otelhttp.NewHandler(h, s.opts.ServiceName)
	}
	return h
}
