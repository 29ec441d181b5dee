package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"bookstore-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyDocuments fails writes of selected documents
type flakyDocuments struct {
	*MemoryDocuments

	mu         sync.Mutex
	failWrites map[string]error
}

func newFlakyDocuments() *flakyDocuments {
	return &flakyDocuments{
		MemoryDocuments: NewMemoryDocuments(),
		failWrites:      make(map[string]error),
	}
}

func (f *flakyDocuments) failWritesTo(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites[name] = err
}

func (f *flakyDocuments) WriteDocument(ctx context.Context, name string, v any) error {
	f.mu.Lock()
	err := f.failWrites[name]
	f.mu.Unlock()
	if err != nil {
		return &IOError{Op: "write", Document: name, Err: err}
	}
	return f.MemoryDocuments.WriteDocument(ctx, name, v)
}

func TestFileDocumentsMissing(t *testing.T) {
	docs, err := NewFileDocuments(t.TempDir())
	require.NoError(t, err)

	var books map[string]models.Book
	err = docs.ReadDocument(context.Background(), BooksDocument, &books)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
	assert.Equal(t, BooksDocument, ioErr.Document)
	assert.True(t, errors.Is(err, ErrDocumentMissing))
}

func TestFileDocumentsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	docs, err := NewFileDocuments(dir)
	require.NoError(t, err)
	ctx := context.Background()

	books := map[string]models.Book{
		"123": {Title: "The Great Gatsby", Price: 10.5, Stock: 4},
		"456": {Title: "Dune", Author: "Frank Herbert", Price: 8.25, Stock: 1},
	}
	require.NoError(t, docs.WriteDocument(ctx, BooksDocument, books))

	var got map[string]models.Book
	require.NoError(t, docs.ReadDocument(ctx, BooksDocument, &got))
	assert.Equal(t, books, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "books.json", entries[0].Name())
}

func TestFileDocumentsReadsIndentedLegacyFile(t *testing.T) {
	dir := t.TempDir()
	legacy := `{
    "123": {
        "title": "The Great Gatsby",
        "price": 10.99,
        "stock": 5
    }
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.json"), []byte(legacy), 0o644))

	docs, err := NewFileDocuments(dir)
	require.NoError(t, err)

	var got map[string]models.Book
	require.NoError(t, docs.ReadDocument(context.Background(), BooksDocument, &got))
	assert.Equal(t, "The Great Gatsby", got["123"].Title)
	assert.Equal(t, 5, got["123"].Stock)
}

func TestCatalogKeepsUnknownBookFields(t *testing.T) {
	dir := t.TempDir()
	legacy := `{
    "123": {
        "title": "The Great Gatsby",
        "isbn": "9780743273565",
        "genre": ["novel", "classic"],
        "price": 10,
        "stock": 5
    }
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.json"), []byte(legacy), 0o644))

	docs, err := NewFileDocuments(dir)
	require.NoError(t, err)
	ctx := context.Background()
	catalog, err := OpenCatalogStore(ctx, docs)
	require.NoError(t, err)

	_, err = catalog.AdjustStock(ctx, "123", 1)
	require.NoError(t, err)

	var raw map[string]map[string]interface{}
	require.NoError(t, docs.ReadDocument(ctx, BooksDocument, &raw))
	assert.Equal(t, map[string]interface{}{
		"title": "The Great Gatsby",
		"isbn":  "9780743273565",
		"genre": []interface{}{"novel", "classic"},
		"price": 10.0,
		"stock": 4.0,
	}, raw["123"])

	book, err := catalog.GetBook("123")
	require.NoError(t, err)
	assert.Equal(t, 4, book.Stock)
	assert.JSONEq(t, `"9780743273565"`, string(book.Extra["isbn"]))
}

func TestFileDocumentsCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.json"), []byte("{not json"), 0o644))

	docs, err := NewFileDocuments(dir)
	require.NoError(t, err)

	var got map[string]models.Order
	err = docs.ReadDocument(context.Background(), OrdersDocument, &got)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "decode", ioErr.Op)
	assert.False(t, errors.Is(err, ErrDocumentMissing))
}

func TestMemoryDocumentsDoNotShareState(t *testing.T) {
	docs := NewMemoryDocuments()
	ctx := context.Background()

	orders := map[string]models.Order{
		"order_1": {OrderID: "order_1", Books: []models.OrderLine{{BookID: "123", Quantity: 1}}},
	}
	require.NoError(t, docs.WriteDocument(ctx, OrdersDocument, orders))
	orders["order_1"].Books[0].Quantity = 99

	var got map[string]models.Order
	require.NoError(t, docs.ReadDocument(ctx, OrdersDocument, &got))
	assert.Equal(t, 1, got["order_1"].Books[0].Quantity)
}
