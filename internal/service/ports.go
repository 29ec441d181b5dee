package service

import (
	"context"
	"time"

	"bookstore-service/internal/models"
)

// EventPublisher publishes domain events after a change is committed
type EventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, event *models.OrderConfirmedEvent) error
	PublishDeliveryCreated(ctx context.Context, event *models.DeliveryCreatedEvent) error
}

// IdempotencyStore remembers which order an Idempotency-Key produced
type IdempotencyStore interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
	LookupOrder(ctx context.Context, key string) (string, bool, error)
	RememberOrder(ctx context.Context, key, orderID string) error
}
