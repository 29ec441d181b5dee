package service

import (
	"context"

	"bookstore-service/internal/models"
	"bookstore-service/internal/util"

	"go.uber.org/zap"
)

// PaymentService handles order payments. There is no payment provider:
// the method is recorded and every order is paid.
type PaymentService struct {
	logger *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService() *PaymentService {
	return &PaymentService{
		logger: util.GetLogger(),
	}
}

// Authorize records a payment attempt for an order that is not committed yet
// and returns the payment status to store on it
func (ps *PaymentService) Authorize(ctx context.Context, orderID, method string, amount float64) string {
	_, span := util.StartSpan(ctx, "PaymentService.Authorize")
	defer span.End()

	util.PaymentAttemptsTotal.Inc()

	ps.logger.Debug("Payment authorized",
		zap.String("order_id", orderID),
		zap.String("payment_method", method),
		zap.Float64("amount", amount))

	return models.PaymentStatusPaid
}

// Settle confirms the payment of a committed order
func (ps *PaymentService) Settle(ctx context.Context, order models.Order, method string) {
	_, span := util.StartSpan(ctx, "PaymentService.Settle")
	defer span.End()

	ps.logger.Info("Payment settled",
		zap.String("order_id", order.OrderID),
		zap.String("payment_method", method),
		zap.String("payment_status", order.PaymentStatus),
		zap.Float64("amount", order.TotalAmount))
}
