package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore-service/internal/models"
	"bookstore-service/internal/store"
	"bookstore-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// idempotencyLockTTL bounds how long a crashed request can block its key
const idempotencyLockTTL = 30 * time.Second

// OrderService places and reads orders
type OrderService struct {
	catalog        *store.CatalogStore
	orders         *store.OrderStore
	paymentService *PaymentService
	eventPublisher EventPublisher
	idempotency    IdempotencyStore
	logger         *zap.Logger
}

// NewOrderService creates a new order service. eventPublisher and
// idempotency are optional and may be nil.
func NewOrderService(
	catalog *store.CatalogStore,
	orders *store.OrderStore,
	paymentService *PaymentService,
	eventPublisher EventPublisher,
	idempotency IdempotencyStore,
) *OrderService {
	return &OrderService{
		catalog:        catalog,
		orders:         orders,
		paymentService: paymentService,
		eventPublisher: eventPublisher,
		idempotency:    idempotency,
		logger:         util.GetLogger(),
	}
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CustomerID     string             `json:"customer_id" binding:"required"`
	Books          []models.OrderLine `json:"books" binding:"required,min=1,dive"`
	PaymentMethod  string             `json:"payment_method"`
	IdempotencyKey string             `json:"-"`
}

// CreateOrder validates every line item against the catalog, persists the
// order and decrements stock. Either all of it happens or none of it does.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	if req.IdempotencyKey != "" && s.idempotency != nil {
		return s.createOrderOnce(ctx, req)
	}
	return s.placeOrder(ctx, req)
}

// createOrderOnce places the order unless the idempotency key already produced one
func (s *OrderService) createOrderOnce(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	key := req.IdempotencyKey

	acquired, err := s.idempotency.AcquireLock(ctx, key, idempotencyLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to lock idempotency key: %w", err)
	}
	if !acquired {
		return nil, ErrRequestInProgress
	}
	defer func() {
		if err := s.idempotency.ReleaseLock(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("Failed to release idempotency lock",
				zap.String("idempotency_key", key),
				zap.Error(err))
		}
	}()

	orderID, found, err := s.idempotency.LookupOrder(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if found {
		existing, err := s.orders.GetOrderByID(orderID)
		switch {
		case err == nil:
			s.logger.Info("Duplicate order request detected",
				zap.String("idempotency_key", key),
				zap.String("order_id", orderID))
			util.OrdersReplayedTotal.Inc()
			return &existing, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
		// the remembered order is gone, place a new one
	}

	order, err := s.placeOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.idempotency.RememberOrder(ctx, key, order.OrderID); err != nil {
		s.logger.Warn("Failed to remember idempotency key",
			zap.String("idempotency_key", key),
			zap.String("order_id", order.OrderID),
			zap.Error(err))
	}
	return order, nil
}

// placeOrder runs validation, order persistence and stock changes inside
// one catalog critical section. The order record is written before the
// catalog; if the catalog write fails the order record is removed again.
func (s *OrderService) placeOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	var (
		order   models.Order
		created bool
	)

	err := s.catalog.Update(ctx, func(tx *store.CatalogTx) error {
		books, err := s.validateOrderItems(tx, req.Books)
		if err != nil {
			return err
		}
		totalAmount := s.calculateTotal(req.Books, books)

		orderID, err := s.orders.NextOrderID(ctx)
		if err != nil {
			return err
		}

		order = models.Order{
			OrderID:       orderID,
			CustomerID:    req.CustomerID,
			Books:         append([]models.OrderLine(nil), req.Books...),
			TotalAmount:   totalAmount,
			Status:        models.OrderStatusConfirmed,
			PaymentStatus: s.paymentService.Authorize(ctx, orderID, req.PaymentMethod, totalAmount),
		}

		if err := s.orders.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		created = true

		for _, item := range req.Books {
			if _, err := tx.AdjustStock(item.BookID, item.Quantity); err != nil {
				return fmt.Errorf("failed to adjust stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if created {
			s.rollbackOrder(ctx, order.OrderID)
		}
		s.recordRejection(err)
		return nil, err
	}

	s.paymentService.Settle(ctx, order, req.PaymentMethod)

	util.OrdersCreatedTotal.Inc()
	util.OrderRevenueTotal.Add(order.TotalAmount)
	for _, item := range order.Books {
		util.BooksSoldTotal.WithLabelValues(item.BookID).Add(float64(item.Quantity))
	}
	s.logger.Info("Order created",
		zap.String("order_id", order.OrderID),
		zap.String("customer_id", order.CustomerID),
		zap.Float64("total_amount", order.TotalAmount))

	s.publishOrderConfirmed(ctx, order, req.PaymentMethod)
	return &order, nil
}

// validateOrderItems checks every line item before anything is mutated.
// Quantities of a book listed more than once are added up.
func (s *OrderService) validateOrderItems(tx *store.CatalogTx, items []models.OrderLine) (map[string]models.Book, error) {
	if len(items) == 0 {
		return nil, invalidRequest("order must contain at least one book")
	}

	books := make(map[string]models.Book, len(items))
	requested := make(map[string]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, invalidQuantity(item.BookID, item.Quantity)
		}

		// compared against what is left so the running sum can never overflow
		book, ok := tx.GetBook(item.BookID)
		if !ok || item.Quantity > book.Stock-requested[item.BookID] {
			return nil, unavailableBook(item.BookID)
		}
		requested[item.BookID] += item.Quantity
		books[item.BookID] = book
	}

	return books, nil
}

// calculateTotal calculates the total amount for an order
func (s *OrderService) calculateTotal(items []models.OrderLine, books map[string]models.Book) float64 {
	var total float64
	for _, item := range items {
		total += books[item.BookID].Price * float64(item.Quantity)
	}
	return total
}

// rollbackOrder removes an order whose stock changes were not committed.
// It runs even when the request context is already cancelled.
func (s *OrderService) rollbackOrder(ctx context.Context, orderID string) {
	if err := s.orders.DeleteOrder(context.WithoutCancel(ctx), orderID); err != nil {
		s.logger.Error("Failed to roll back order",
			zap.String("order_id", orderID),
			zap.Error(err))
		return
	}
	s.logger.Warn("Order rolled back", zap.String("order_id", orderID))
}

func (s *OrderService) recordRejection(err error) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		util.OrdersRejectedTotal.WithLabelValues("validation").Inc()
		return
	}
	util.OrdersRejectedTotal.WithLabelValues("persistence").Inc()
	s.logger.Error("Order placement failed", zap.Error(err))
}

func (s *OrderService) publishOrderConfirmed(ctx context.Context, order models.Order, paymentMethod string) {
	if s.eventPublisher == nil {
		return
	}

	event := &models.OrderConfirmedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderConfirmed,
			Timestamp: time.Now(),
		},
		OrderID:       order.OrderID,
		CustomerID:    order.CustomerID,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: paymentMethod,
		Items:         order.Books,
	}

	if err := s.eventPublisher.PublishOrderConfirmed(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderConfirmed event", zap.Error(err))
	}
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (models.Order, error) {
	_, span := util.StartSpan(ctx, "OrderService.GetOrder")
	defer span.End()

	return s.orders.GetOrderByID(orderID)
}
