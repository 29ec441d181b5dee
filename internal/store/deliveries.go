package store

import (
	"context"
	"fmt"

	"bookstore-service/internal/models"
)

const (
	// DeliveriesDocument is the name of the deliveries document
	DeliveriesDocument = "deliveries"

	deliveryIDPrefix = "del_"
)

// DeliveryStore owns the deliveries document
type DeliveryStore struct {
	deliveries *collection[models.Delivery]
	seq        *Sequence
}

// OpenDeliveryStore loads the deliveries and seeds the id sequence past any existing delivery id
func OpenDeliveryStore(ctx context.Context, docs Documents, seq *Sequence) (*DeliveryStore, error) {
	deliveries, err := openCollection[models.Delivery](ctx, docs, DeliveriesDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to open deliveries: %w", err)
	}
	seq.Seed(DeliveriesDocument, highestSuffix(deliveries.ids(), deliveryIDPrefix))
	return &DeliveryStore{deliveries: deliveries, seq: seq}, nil
}

// CreateDelivery assigns a fresh id to d and persists it
func (s *DeliveryStore) CreateDelivery(ctx context.Context, d models.Delivery) (models.Delivery, error) {
	n, err := s.seq.Next(ctx, DeliveriesDocument)
	if err != nil {
		return models.Delivery{}, fmt.Errorf("failed to generate delivery id: %w", err)
	}
	d.DeliveryID = fmt.Sprintf("%s%d", deliveryIDPrefix, n)

	err = s.deliveries.mutate(ctx, func(staged map[string]models.Delivery) error {
		staged[d.DeliveryID] = d
		return nil
	})
	if err != nil {
		return models.Delivery{}, err
	}
	return d, nil
}

// GetDeliveryByID retrieves a delivery by ID
func (s *DeliveryStore) GetDeliveryByID(id string) (models.Delivery, error) {
	d, ok := s.deliveries.get(id)
	if !ok {
		return models.Delivery{}, fmt.Errorf("delivery %s: %w", id, ErrNotFound)
	}
	return d, nil
}
