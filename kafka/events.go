package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductChangedEvent records a successful catalog mutation made through the console
type ProductChangedEvent struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	ProductID int              `json:"product_id"`
	Title     string           `json:"title,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	UserID    int              `json:"user_id"`
	Username  string           `json:"username"`
	RequestID string           `json:"request_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Event types
const (
	EventTypeProductCreated = "product.created"
	EventTypeProductUpdated = "product.updated"
	EventTypeProductDeleted = "product.deleted"
)

// Kafka topics
const (
	TopicCatalogAudit = "catalog-audit"
)

// IsProductEvent reports whether eventType is one of the product event types
func IsProductEvent(eventType string) bool {
	switch eventType {
	case EventTypeProductCreated, EventTypeProductUpdated, EventTypeProductDeleted:
		return true
	}
	return false
}
