package api

import (
	"errors"
	"net/http"
	"time"

	"bookstore-service/internal/models"
	"bookstore-service/internal/service"
	"bookstore-service/internal/store"
	"bookstore-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	orderService     *service.OrderService
	deliveryService  *service.DeliveryService
	inventoryService *service.InventoryService
	apiToken         string
	logger           *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orderService *service.OrderService,
	deliveryService *service.DeliveryService,
	inventoryService *service.InventoryService,
	apiToken string,
) *Handler {
	return &Handler{
		orderService:     orderService,
		deliveryService:  deliveryService,
		inventoryService: inventoryService,
		apiToken:         apiToken,
		logger:           util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestLogger(h.logger))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(bearerAuth(h.apiToken))
	{
		api.GET("/books", h.listBooks)
		api.GET("/books/:id", h.getBook)
		api.POST("/books/:id", h.addBook)
		api.DELETE("/books/:id", h.removeBook)

		api.POST("/orders", h.createOrder)
		api.GET("/orders/:id", h.getOrder)

		api.POST("/deliveries", h.createDelivery)
		api.GET("/deliveries/:id", h.getDelivery)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listBooks returns the catalog as a mapping of book id to book
func (h *Handler) listBooks(c *gin.Context) {
	c.JSON(http.StatusOK, h.inventoryService.ListBooks(c.Request.Context()))
}

// getBook handles get book by ID
func (h *Handler) getBook(c *gin.Context) {
	book, err := h.inventoryService.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Book not found")
		return
	}

	c.JSON(http.StatusOK, book)
}

// addBook creates or replaces a catalog entry
func (h *Handler) addBook(c *gin.Context) {
	var book models.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	bookID := c.Param("id")
	if err := h.inventoryService.AddBook(c.Request.Context(), bookID, book); err != nil {
		h.respondError(c, err, "Book not found")
		return
	}

	c.JSON(http.StatusCreated, book)
}

// removeBook deletes a catalog entry
func (h *Handler) removeBook(c *gin.Context) {
	if err := h.inventoryService.RemoveBook(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "Book not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// createOrder handles order creation
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Book not found")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Order not found")
		return
	}

	c.JSON(http.StatusOK, order)
}

// createDelivery handles delivery creation
func (h *Handler) createDelivery(c *gin.Context) {
	var req service.CreateDeliveryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	delivery, err := h.deliveryService.CreateDelivery(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Order not found")
		return
	}

	c.JSON(http.StatusCreated, delivery)
}

// getDelivery handles get delivery by ID
func (h *Handler) getDelivery(c *gin.Context) {
	delivery, err := h.deliveryService.GetDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Delivery not found")
		return
	}

	c.JSON(http.StatusOK, delivery)
}

// respondError maps service and store errors to status codes
func (h *Handler) respondError(c *gin.Context, err error, notFoundMessage string) {
	var (
		validationErr *service.ValidationError
		ioErr         *store.IOError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
	case errors.Is(err, service.ErrRequestInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &ioErr):
		h.logger.Error("Storage failure",
			zap.String("path", c.FullPath()),
			zap.String("document", ioErr.Document),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage unavailable"})
	default:
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
