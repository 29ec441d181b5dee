package store

import (
	"context"
	"errors"
	"testing"

	"bookstore-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openOrderStore(t *testing.T, docs Documents) *OrderStore {
	t.Helper()
	ctx := context.Background()
	seq, err := OpenSequence(ctx, docs)
	require.NoError(t, err)
	orders, err := OpenOrderStore(ctx, docs, seq)
	require.NoError(t, err)
	return orders
}

func TestCreateOrder(t *testing.T) {
	docs := NewMemoryDocuments()
	orders := openOrderStore(t, docs)
	ctx := context.Background()

	id, err := orders.NextOrderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order_1", id)

	order := models.Order{
		OrderID:       id,
		CustomerID:    "cust_001",
		Books:         []models.OrderLine{{BookID: "123", Quantity: 2}},
		TotalAmount:   21,
		Status:        models.OrderStatusConfirmed,
		PaymentStatus: models.PaymentStatusPaid,
	}
	require.NoError(t, orders.CreateOrder(ctx, order))

	retrieved, err := orders.GetOrderByID(id)
	require.NoError(t, err)
	assert.Equal(t, order, retrieved)

	retrieved.Books[0].Quantity = 50
	again, err := orders.GetOrderByID(id)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Books[0].Quantity)

	assert.Error(t, orders.CreateOrder(ctx, order), "duplicate ids are rejected")
	assert.Equal(t, 1, orders.CountOrders())
}

func TestGetOrderNotFound(t *testing.T) {
	orders := openOrderStore(t, NewMemoryDocuments())

	_, err := orders.GetOrderByID("order_42")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOrderIDsAreNotReusedAfterDelete(t *testing.T) {
	docs := NewMemoryDocuments()
	orders := openOrderStore(t, docs)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		id, err := orders.NextOrderID(ctx)
		require.NoError(t, err)
		require.NoError(t, orders.CreateOrder(ctx, models.Order{OrderID: id}))
	}
	require.NoError(t, orders.DeleteOrder(ctx, "order_2"))

	reopened := openOrderStore(t, docs)
	id, err := reopened.NextOrderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order_3", id)
}

func TestOrderSequenceSeededFromLegacyDocument(t *testing.T) {
	docs := NewMemoryDocuments()
	ctx := context.Background()
	require.NoError(t, docs.WriteDocument(ctx, OrdersDocument, map[string]models.Order{
		"order_1": {OrderID: "order_1"},
		"order_7": {OrderID: "order_7"},
		"custom":  {OrderID: "custom"},
	}))

	orders := openOrderStore(t, docs)
	id, err := orders.NextOrderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order_8", id)
}

func TestNextOrderIDWriteFailure(t *testing.T) {
	docs := newFlakyDocuments()
	orders := openOrderStore(t, docs)
	ctx := context.Background()

	docs.failWritesTo(SequencesDocument, errors.New("read-only"))
	_, err := orders.NextOrderID(ctx)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))

	docs.failWritesTo(SequencesDocument, nil)
	id, err := orders.NextOrderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order_1", id, "a failed reservation must not burn the number")
}

func TestDeliveryStore(t *testing.T) {
	docs := NewMemoryDocuments()
	ctx := context.Background()
	seq, err := OpenSequence(ctx, docs)
	require.NoError(t, err)
	deliveries, err := OpenDeliveryStore(ctx, docs, seq)
	require.NoError(t, err)

	first, err := deliveries.CreateDelivery(ctx, models.Delivery{OrderID: "order_1", Status: models.DeliveryStatusPending})
	require.NoError(t, err)
	second, err := deliveries.CreateDelivery(ctx, models.Delivery{OrderID: "order_1", Status: models.DeliveryStatusPending})
	require.NoError(t, err)
	assert.Equal(t, "del_1", first.DeliveryID)
	assert.Equal(t, "del_2", second.DeliveryID)

	got, err := deliveries.GetDeliveryByID("del_2")
	require.NoError(t, err)
	assert.Equal(t, second, got)

	_, err = deliveries.GetDeliveryByID("del_9")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestHighestSuffix(t *testing.T) {
	assert.Equal(t, int64(0), highestSuffix(nil, "order_"))
	assert.Equal(t, int64(12), highestSuffix([]string{"order_3", "order_12", "del_40", "order_x"}, "order_"))
	assert.Equal(t, int64(40), highestSuffix([]string{"order_3", "del_40"}, "del_"))
}
