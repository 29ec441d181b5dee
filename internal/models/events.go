package models

import "time"

// Event types
const (
	EventTypeOrderConfirmed  = "ORDER_CONFIRMED"
	EventTypeDeliveryCreated = "DELIVERY_CREATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderConfirmedEvent published once an order and its stock changes are committed
type OrderConfirmedEvent struct {
	BaseEvent
	OrderID       string      `json:"order_id"`
	CustomerID    string      `json:"customer_id"`
	TotalAmount   float64     `json:"total_amount"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderLine `json:"items"`
}

// DeliveryCreatedEvent published when a delivery is recorded
type DeliveryCreatedEvent struct {
	BaseEvent
	DeliveryID            string `json:"delivery_id"`
	OrderID               string `json:"order_id"`
	EstimatedDeliveryDate string `json:"estimated_delivery_date"`
}
