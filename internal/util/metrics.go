package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookstore_orders_created_total",
		Help: "Total number of confirmed orders",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookstore_orders_rejected_total",
		Help: "Total number of rejected orders",
	}, []string{"reason"})

	OrdersReplayedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookstore_orders_replayed_total",
		Help: "Total number of order requests answered from an idempotency key",
	})

	OrderRevenueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookstore_order_revenue_total",
		Help: "Sum of total_amount over confirmed orders",
	})

	BooksSoldTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookstore_books_sold_total",
		Help: "Units sold per book",
	}, []string{"book_id"})

	OrderProcessingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookstore_order_processing_latency_seconds",
		Help:    "Latency of order placement including persistence",
		Buckets: prometheus.DefBuckets,
	})

	PaymentAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookstore_payment_attempts_total",
		Help: "Total number of payment settlements",
	})

	DeliveriesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookstore_deliveries_created_total",
		Help: "Total number of deliveries recorded",
	})

	CatalogChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookstore_catalog_changes_total",
		Help: "Catalog entries added or removed",
	}, []string{"op"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
