package service

import (
	"context"
	"errors"
	"testing"

	"bookstore-service/internal/models"
	"bookstore-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuthorizeAlwaysPays(t *testing.T) {
	ps := NewPaymentService()

	for _, method := range []string{"credit_card", "paypal", ""} {
		assert.Equal(t, models.PaymentStatusPaid, ps.Authorize(context.Background(), "order_1", method, 12.5))
	}
}

func TestPaymentSettledOnlyForCommittedOrders(t *testing.T) {
	env := newTestEnv(t, sampleCatalog())
	core, logs := observer.New(zapcore.DebugLevel)
	payments := &PaymentService{logger: zap.New(core)}
	svc := NewOrderService(env.catalog, env.orders, payments, nil, nil)
	req := &CreateOrderRequest{
		CustomerID:    "cust_020",
		Books:         []models.OrderLine{{BookID: "123", Quantity: 1}},
		PaymentMethod: "paypal",
	}

	env.docs.failWritesTo(store.BooksDocument, errors.New("disk full"))
	_, err := svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("Payment authorized").Len())
	assert.Zero(t, logs.FilterMessage("Payment settled").Len())

	env.docs.failWritesTo(store.BooksDocument, nil)
	order, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	settled := logs.FilterMessage("Payment settled").All()
	require.Len(t, settled, 1)
	assert.Equal(t, order.OrderID, settled[0].ContextMap()["order_id"])
	assert.Equal(t, "paypal", settled[0].ContextMap()["payment_method"])
}
