package broker

import (
	"context"
	"fmt"

	"bookstore-service/internal/models"
)

// EventPublisher handles publishing domain events. Events of one order
// share a message key so they land on the same partition in order.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderConfirmed publishes OrderConfirmed event
func (ep *EventPublisher) PublishOrderConfirmed(ctx context.Context, event *models.OrderConfirmedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishDeliveryCreated publishes DeliveryCreated event
func (ep *EventPublisher) PublishDeliveryCreated(ctx context.Context, event *models.DeliveryCreatedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}
