package service

import (
	"context"
	"fmt"
	"strings"

	"bookstore-service/internal/models"
	"bookstore-service/internal/store"
	"bookstore-service/internal/util"

	"go.uber.org/zap"
)

// InventoryService exposes the book catalog
type InventoryService struct {
	catalog *store.CatalogStore
	logger  *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(catalog *store.CatalogStore) *InventoryService {
	return &InventoryService{
		catalog: catalog,
		logger:  util.GetLogger(),
	}
}

// GetBook retrieves a book by ID
func (is *InventoryService) GetBook(ctx context.Context, bookID string) (models.Book, error) {
	_, span := util.StartSpan(ctx, "InventoryService.GetBook")
	defer span.End()

	return is.catalog.GetBook(bookID)
}

// ListBooks returns the whole catalog keyed by book ID
func (is *InventoryService) ListBooks(ctx context.Context) map[string]models.Book {
	_, span := util.StartSpan(ctx, "InventoryService.ListBooks")
	defer span.End()

	return is.catalog.ListBooks()
}

// AddBook creates or replaces a catalog entry
func (is *InventoryService) AddBook(ctx context.Context, bookID string, book models.Book) error {
	ctx, span := util.StartSpan(ctx, "InventoryService.AddBook")
	defer span.End()

	if strings.TrimSpace(bookID) == "" {
		return invalidRequest("book id must not be empty")
	}
	if book.Price < 0 || book.Stock < 0 {
		return &ValidationError{BookID: bookID, Message: fmt.Sprintf("Book %s must have non-negative price and stock", bookID)}
	}

	if err := is.catalog.AddBook(ctx, bookID, book); err != nil {
		return err
	}

	util.CatalogChangesTotal.WithLabelValues("add").Inc()
	is.logger.Info("Book added",
		zap.String("book_id", bookID),
		zap.Int("stock", book.Stock))
	return nil
}

// RemoveBook deletes a catalog entry
func (is *InventoryService) RemoveBook(ctx context.Context, bookID string) error {
	ctx, span := util.StartSpan(ctx, "InventoryService.RemoveBook")
	defer span.End()

	if err := is.catalog.RemoveBook(ctx, bookID); err != nil {
		return err
	}

	util.CatalogChangesTotal.WithLabelValues("remove").Inc()
	is.logger.Info("Book removed", zap.String("book_id", bookID))
	return nil
}
