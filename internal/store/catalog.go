package store

import (
	"context"
	"fmt"

	"bookstore-service/internal/models"
)

// BooksDocument is the name of the catalog document
const BooksDocument = "books"

// CatalogStore owns the book catalog
type CatalogStore struct {
	books *collection[models.Book]
}

// OpenCatalogStore loads the catalog, creating an empty one if the document is missing
func OpenCatalogStore(ctx context.Context, docs Documents) (*CatalogStore, error) {
	books, err := openCollection[models.Book](ctx, docs, BooksDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return &CatalogStore{books: books}, nil
}

// GetBook retrieves a book by ID
func (s *CatalogStore) GetBook(id string) (models.Book, error) {
	book, ok := s.books.get(id)
	if !ok {
		return models.Book{}, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	return book, nil
}

// ListBooks returns a snapshot of the whole catalog
func (s *CatalogStore) ListBooks() map[string]models.Book {
	return s.books.all()
}

// AddBook creates or replaces a catalog entry
func (s *CatalogStore) AddBook(ctx context.Context, id string, book models.Book) error {
	return s.books.mutate(ctx, func(staged map[string]models.Book) error {
		staged[id] = book
		return nil
	})
}

// RemoveBook deletes a catalog entry
func (s *CatalogStore) RemoveBook(ctx context.Context, id string) error {
	return s.books.mutate(ctx, func(staged map[string]models.Book) error {
		if _, ok := staged[id]; !ok {
			return fmt.Errorf("book %s: %w", id, ErrNotFound)
		}
		delete(staged, id)
		return nil
	})
}

// AdjustStock decrements the stock of a book by delta.
// There is no lower bound check here; callers validate availability first.
func (s *CatalogStore) AdjustStock(ctx context.Context, id string, delta int) (models.Book, error) {
	var updated models.Book
	err := s.Update(ctx, func(tx *CatalogTx) error {
		book, err := tx.AdjustStock(id, delta)
		updated = book
		return err
	})
	return updated, err
}

// Update runs fn against a staged copy of the catalog while holding the
// catalog write lock. Changes made through tx are flushed in one document
// write; if fn or the write fails the catalog is left as it was.
func (s *CatalogStore) Update(ctx context.Context, fn func(tx *CatalogTx) error) error {
	return s.books.mutate(ctx, func(staged map[string]models.Book) error {
		return fn(&CatalogTx{books: staged})
	})
}

// CatalogTx is a staged view of the catalog handed out by Update
type CatalogTx struct {
	books map[string]models.Book
}

// GetBook reads a book from the staged catalog
func (tx *CatalogTx) GetBook(id string) (models.Book, bool) {
	book, ok := tx.books[id]
	return book, ok
}

// AdjustStock decrements the staged stock of a book by delta
func (tx *CatalogTx) AdjustStock(id string, delta int) (models.Book, error) {
	book, ok := tx.books[id]
	if !ok {
		return models.Book{}, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	book.Stock -= delta
	tx.books[id] = book
	return book, nil
}
