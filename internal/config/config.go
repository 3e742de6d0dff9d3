package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the console configuration, read from the environment
// (optionally seeded from a .env file)
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"catalog-console"`
	Environment string `envconfig:"ENVIRONMENT"  default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`
	HTTPAddr    string `envconfig:"HTTP_ADDR"    default:":8080"`

	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT"  default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	CatalogBaseURL     string        `envconfig:"CATALOG_BASE_URL"      default:"https://dummyjson.com"`
	CatalogTimeout     time.Duration `envconfig:"CATALOG_TIMEOUT"       default:"10s"`
	LoginExpiresInMins int           `envconfig:"LOGIN_EXPIRES_IN_MINS" default:"30"`
	CategoryCacheTTL   time.Duration `envconfig:"CATEGORY_CACHE_TTL"    default:"5m"`

	BreakerMaxFailures int           `envconfig:"BREAKER_MAX_FAILURES" default:"5"`
	BreakerOpenTimeout time.Duration `envconfig:"BREAKER_OPEN_TIMEOUT" default:"30s"`

	RedisAddr     string `envconfig:"REDIS_ADDR"     default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"       default:"0"`

	SessionCookieName   string `envconfig:"SESSION_COOKIE_NAME"   default:"console_sid"`
	SessionCookieSecure bool   `envconfig:"SESSION_COOKIE_SECURE" default:"false"`

	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT"  default:"10"`
	LoginRateWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"1m"`
	TrustedProxies  []string      `envconfig:"TRUSTED_PROXIES"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	KafkaEnabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaGroupID string   `envconfig:"KAFKA_GROUP_ID" default:"catalog-audit"`

	TracingEnabled bool    `envconfig:"TRACING_ENABLED" default:"false"`
	JaegerEndpoint string  `envconfig:"JAEGER_ENDPOINT" default:"http://localhost:14268/api/traces"`
	TraceSampling  float64 `envconfig:"TRACE_SAMPLING"  default:"1"`
}

// IsDevelopment reports whether console-formatted logs should be used
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads .env (when present) and the process environment
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles reads the given env files (missing ones are skipped) and the process environment
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if cfg.CatalogBaseURL == "" {
		return nil, errors.New("CATALOG_BASE_URL must not be empty")
	}
	if cfg.LoginExpiresInMins <= 0 {
		return nil, fmt.Errorf("LOGIN_EXPIRES_IN_MINS must be positive, got %d", cfg.LoginExpiresInMins)
	}

	return &cfg, nil
}
