package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/catalog-console/pkg/logger"
)

// Errors reported by dispatch
var (
	ErrMissingEventType = errors.New("message without event_type header")
	ErrNoHandler        = errors.New("no handler registered for event type")
)

// EventHandler handles one product change event
type EventHandler func(ctx context.Context, event ProductChangedEvent) error

// Consumer wraps a Kafka consumer group reading the audit topic
type Consumer struct {
	group         sarama.ConsumerGroup
	groupID       string
	topics        []string
	handlers      map[string]EventHandler
	handlersMutex sync.RWMutex
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(brokers []string, groupID string, topics []string) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Kafka consumer initialized")

	c := newConsumer(groupID, topics)
	c.group = group
	return c, nil
}

func newConsumer(groupID string, topics []string) *Consumer {
	return &Consumer{
		groupID:  groupID,
		topics:   topics,
		handlers: make(map[string]EventHandler),
	}
}

// RegisterHandler registers an event handler for a specific event type
func (c *Consumer) RegisterHandler(eventType string, handler EventHandler) {
	c.handlersMutex.Lock()
	defer c.handlersMutex.Unlock()
	c.handlers[eventType] = handler
	logger.Logger.Info().
		Str("event_type", eventType).
		Msg("Event handler registered")
}

// Run consumes until ctx is cancelled
func (c *Consumer) Run(ctx context.Context) error {
	handler := &consumerGroupHandler{consumer: c}

	go func() {
		for err := range c.group.Errors() {
			logger.Logger.Error().
				Err(err).
				Msg("Consumer error")
		}
	}()

	logger.Logger.Info().
		Strs("topics", c.topics).
		Str("group_id", c.groupID).
		Msg("Kafka consumer started")

	for {
		if err := c.group.Consume(ctx, c.topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			logger.Logger.Error().
				Err(err).
				Msg("Error from consumer")
		}
		if ctx.Err() != nil {
			logger.Logger.Info().Msg("Consumer context cancelled, stopping...")
			return nil
		}
	}
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	if c.group != nil {
		return c.group.Close()
	}
	return nil
}

// dispatch decodes message and runs the handler registered for its event type
func (c *Consumer) dispatch(ctx context.Context, message *sarama.ConsumerMessage) error {
	// Extract trace context from Kafka headers
	carrier := propagation.MapCarrier{}
	var eventType string
	for _, header := range message.Headers {
		switch key := string(header.Key); key {
		case "traceparent", "tracestate":
			carrier[key] = string(header.Value)
		case "event_type":
			eventType = string(header.Value)
		}
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	tracer := otel.Tracer("kafka-consumer")
	ctx, span := tracer.Start(ctx, "kafka.consume.catalog_audit",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", message.Topic),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
		),
	)
	defer span.End()

	if eventType == "" {
		span.SetStatus(codes.Error, ErrMissingEventType.Error())
		return ErrMissingEventType
	}
	span.SetAttributes(attribute.String("event.type", eventType))

	c.handlersMutex.RLock()
	handler, exists := c.handlers[eventType]
	c.handlersMutex.RUnlock()
	if !exists {
		span.SetStatus(codes.Error, ErrNoHandler.Error())
		return fmt.Errorf("%w: %s", ErrNoHandler, eventType)
	}

	var event ProductChangedEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to unmarshal event")
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}
	span.SetAttributes(
		attribute.String("event.id", event.EventID),
		attribute.Int("product.id", event.ProductID),
	)

	if err := handler(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to handle event")
		return fmt.Errorf("failed to handle event %s: %w", event.EventID, err)
	}

	span.SetStatus(codes.Ok, "Event handled successfully")
	return nil
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	consumer *Consumer
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := h.consumer.dispatch(session.Context(), message); err != nil {
			logger.Logger.Warn().
				Err(err).
				Str("topic", message.Topic).
				Int32("partition", message.Partition).
				Int64("offset", message.Offset).
				Msg("Skipping audit message")
		}
		session.MarkMessage(message, "")
	}
	return nil
}
