package service

import (
	"context"
	"errors"
	"time"

	"bookstore-service/internal/models"
	"bookstore-service/internal/store"
	"bookstore-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeliveryService records deliveries. The order id of a delivery is a free-form
// reference; it is only checked against the order store when verifyOrder is set.
type DeliveryService struct {
	deliveries     *store.DeliveryStore
	orders         *store.OrderStore
	verifyOrder    bool
	eventPublisher EventPublisher
	logger         *zap.Logger
}

// NewDeliveryService creates a new delivery service. orders may be nil when verifyOrder is false.
func NewDeliveryService(
	deliveries *store.DeliveryStore,
	orders *store.OrderStore,
	verifyOrder bool,
	eventPublisher EventPublisher,
) *DeliveryService {
	return &DeliveryService{
		deliveries:     deliveries,
		orders:         orders,
		verifyOrder:    verifyOrder && orders != nil,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreateDeliveryRequest represents a request to create a delivery
type CreateDeliveryRequest struct {
	OrderID               string `json:"order_id" binding:"required"`
	Address               string `json:"address" binding:"required"`
	EstimatedDeliveryDate string `json:"estimated_delivery_date" binding:"required"`
}

// CreateDelivery records a pending delivery for an order
func (s *DeliveryService) CreateDelivery(ctx context.Context, req *CreateDeliveryRequest) (models.Delivery, error) {
	ctx, span := util.StartSpan(ctx, "DeliveryService.CreateDelivery")
	defer span.End()

	if s.verifyOrder {
		if _, err := s.orders.GetOrderByID(req.OrderID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return models.Delivery{}, invalidRequest("Order %s does not exist", req.OrderID)
			}
			return models.Delivery{}, err
		}
	}

	delivery, err := s.deliveries.CreateDelivery(ctx, models.Delivery{
		OrderID:               req.OrderID,
		Address:               req.Address,
		Status:                models.DeliveryStatusPending,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
	})
	if err != nil {
		s.logger.Error("Failed to create delivery",
			zap.String("order_id", req.OrderID),
			zap.Error(err))
		return models.Delivery{}, err
	}

	util.DeliveriesCreatedTotal.Inc()
	s.logger.Info("Delivery created",
		zap.String("delivery_id", delivery.DeliveryID),
		zap.String("order_id", delivery.OrderID))

	if s.eventPublisher != nil {
		event := &models.DeliveryCreatedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeDeliveryCreated,
				Timestamp: time.Now(),
			},
			DeliveryID:            delivery.DeliveryID,
			OrderID:               delivery.OrderID,
			EstimatedDeliveryDate: delivery.EstimatedDeliveryDate,
		}
		if err := s.eventPublisher.PublishDeliveryCreated(ctx, event); err != nil {
			s.logger.Error("Failed to publish DeliveryCreated event", zap.Error(err))
		}
	}

	return delivery, nil
}

// GetDelivery retrieves a delivery by ID
func (s *DeliveryService) GetDelivery(ctx context.Context, deliveryID string) (models.Delivery, error) {
	_, span := util.StartSpan(ctx, "DeliveryService.GetDelivery")
	defer span.End()

	return s.deliveries.GetDeliveryByID(deliveryID)
}
