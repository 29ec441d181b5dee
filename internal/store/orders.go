package store

import (
	"context"
	"fmt"

	"bookstore-service/internal/models"
)

const (
	// OrdersDocument is the name of the orders document
	OrdersDocument = "orders"

	orderIDPrefix = "order_"
)

// OrderStore owns the orders document
type OrderStore struct {
	orders *collection[models.Order]
	seq    *Sequence
}

// OpenOrderStore loads the orders and seeds the id sequence past any existing order id
func OpenOrderStore(ctx context.Context, docs Documents, seq *Sequence) (*OrderStore, error) {
	orders, err := openCollection[models.Order](ctx, docs, OrdersDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to open orders: %w", err)
	}
	seq.Seed(OrdersDocument, highestSuffix(orders.ids(), orderIDPrefix))
	return &OrderStore{orders: orders, seq: seq}, nil
}

// NextOrderID reserves a new order id
func (s *OrderStore) NextOrderID(ctx context.Context) (string, error) {
	n, err := s.seq.Next(ctx, OrdersDocument)
	if err != nil {
		return "", fmt.Errorf("failed to generate order id: %w", err)
	}
	return fmt.Sprintf("%s%d", orderIDPrefix, n), nil
}

// CreateOrder persists a new order
func (s *OrderStore) CreateOrder(ctx context.Context, order models.Order) error {
	order = order.Clone()
	return s.orders.mutate(ctx, func(staged map[string]models.Order) error {
		if _, exists := staged[order.OrderID]; exists {
			return fmt.Errorf("order %s already exists", order.OrderID)
		}
		staged[order.OrderID] = order
		return nil
	})
}

// GetOrderByID retrieves an order by ID
func (s *OrderStore) GetOrderByID(id string) (models.Order, error) {
	order, ok := s.orders.get(id)
	if !ok {
		return models.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return order.Clone(), nil
}

// DeleteOrder removes an order. Used to undo an order whose stock changes could not be committed.
func (s *OrderStore) DeleteOrder(ctx context.Context, id string) error {
	return s.orders.mutate(ctx, func(staged map[string]models.Order) error {
		if _, ok := staged[id]; !ok {
			return fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		delete(staged, id)
		return nil
	})
}

// CountOrders returns the number of stored orders
func (s *OrderStore) CountOrders() int {
	return len(s.orders.ids())
}
