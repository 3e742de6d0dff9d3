package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tair/catalog-console/internal/config"
	"github.com/tair/catalog-console/kafka"
	"github.com/tair/catalog-console/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("catalog-audit-consumer", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.ServiceName+"-audit", cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{kafka.TopicCatalogAudit})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	logEvent := func(ctx context.Context, event kafka.ProductChangedEvent) error {
		e := logger.Info(ctx).
			Str("event_id", event.EventID).
			Str("event_type", event.EventType).
			Int("product_id", event.ProductID).
			Str("title", event.Title).
			Int("user_id", event.UserID).
			Str("username", event.Username).
			Str("console_request_id", event.RequestID).
			Time("at", event.Timestamp)
		if event.Price != nil {
			e = e.Str("price", event.Price.StringFixed(2))
		}
		e.Msg("Catalog change")
		return nil
	}
	for _, eventType := range []string{
		kafka.EventTypeProductCreated,
		kafka.EventTypeProductUpdated,
		kafka.EventTypeProductDeleted,
	} {
		consumer.RegisterHandler(eventType, logEvent)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Run(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Consumer stopped with error")
	}
	logger.Logger.Info().Msg("Audit consumer exited")
}
