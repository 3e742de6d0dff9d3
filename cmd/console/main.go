package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	_ "github.com/tair/catalog-console/docs"
	"github.com/tair/catalog-console/internal/config"
	"github.com/tair/catalog-console/internal/console"
	"github.com/tair/catalog-console/kafka"
	"github.com/tair/catalog-console/pkg/logger"
	"github.com/tair/catalog-console/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("catalog-console", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("catalog", cfg.CatalogBaseURL).
		Msg("Starting catalog console")

	// Initialize tracer
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(tracing.Config{
			ServiceName:    cfg.ServiceName,
			ServiceVersion: "1.0.0",
			JaegerEndpoint: cfg.JaegerEndpoint,
			SampleRatio:    cfg.TraceSampling,
		})
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracing.Shutdown(ctx, tp); err != nil {
					logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
				}
			}()
		}
	}

	redisClient := connectRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var publisher *kafka.Publisher
	if cfg.KafkaEnabled {
		publisher, err = kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, audit events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize console with Wire DI
	server, err := console.InitializeServer(cfg, redisClient, reg, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize console")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("addr", cfg.HTTPAddr).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Bool("redis_sessions", redisClient != nil).
			Bool("audit_events", publisher != nil).
			Msg("HTTP server started")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Logger.Info().Msg("Server exited")
}

// connectRedis returns nil when Redis cannot be reached; sessions then live in memory
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("addr", cfg.RedisAddr).
			Msg("Redis unavailable, falling back to in-memory sessions")
		_ = client.Close()
		return nil
	}

	logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
	return client
}
