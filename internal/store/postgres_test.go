package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"bookstore-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestPostgres(t *testing.T) *PostgresDocuments {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - requires database (set TEST_DATABASE_URL)")
	}

	docs, err := NewPostgresDocuments(url)
	require.NoError(t, err)
	t.Cleanup(func() { docs.Close() })

	_, err = docs.GetDB().Exec("DELETE FROM documents")
	require.NoError(t, err)
	return docs
}

func TestPostgresDocumentsRoundTrip(t *testing.T) {
	docs := openTestPostgres(t)
	ctx := context.Background()

	var missing map[string]models.Book
	err := docs.ReadDocument(ctx, BooksDocument, &missing)
	assert.True(t, errors.Is(err, ErrDocumentMissing))

	books := map[string]models.Book{"123": {Title: "The Great Gatsby", Price: 10.5, Stock: 4}}
	require.NoError(t, docs.WriteDocument(ctx, BooksDocument, books))

	var got map[string]models.Book
	require.NoError(t, docs.ReadDocument(ctx, BooksDocument, &got))
	assert.Equal(t, books, got)
}

func TestPostgresBackedCatalog(t *testing.T) {
	docs := openTestPostgres(t)
	ctx := context.Background()

	catalog, err := OpenCatalogStore(ctx, docs)
	require.NoError(t, err)
	require.NoError(t, catalog.AddBook(ctx, "123", models.Book{Title: "Dune", Price: 8, Stock: 3}))

	reopened, err := OpenCatalogStore(ctx, docs)
	require.NoError(t, err)
	book, err := reopened.GetBook("123")
	require.NoError(t, err)
	assert.Equal(t, 3, book.Stock)
}
