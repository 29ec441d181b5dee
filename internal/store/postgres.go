package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const documentsSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		name       TEXT PRIMARY KEY,
		body       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// PostgresDocuments stores each document as one JSONB row keyed by name
type PostgresDocuments struct {
	db *sqlx.DB
}

// NewPostgresDocuments connects to the database and makes sure the documents table exists
func NewPostgresDocuments(databaseURL string) (*PostgresDocuments, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(documentsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	return &PostgresDocuments{db: db}, nil
}

// Close closes the database connection
func (p *PostgresDocuments) Close() error {
	return p.db.Close()
}

// GetDB returns the underlying database connection
func (p *PostgresDocuments) GetDB() *sqlx.DB {
	return p.db
}

// ReadDocument decodes the named document into v
func (p *PostgresDocuments) ReadDocument(ctx context.Context, name string, v any) error {
	var body []byte
	err := p.db.GetContext(ctx, &body, "SELECT body FROM documents WHERE name = $1", name)
	if errors.Is(err, sql.ErrNoRows) {
		return &IOError{Op: "read", Document: name, Err: ErrDocumentMissing}
	}
	if err != nil {
		return &IOError{Op: "read", Document: name, Err: err}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &IOError{Op: "decode", Document: name, Err: err}
	}
	return nil
}

// WriteDocument upserts the named document
func (p *PostgresDocuments) WriteDocument(ctx context.Context, name string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return &IOError{Op: "encode", Document: name, Err: err}
	}

	// body goes over as text so it is never treated as bytea
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO documents (name, body) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		name, string(body))
	if err != nil {
		return &IOError{Op: "write", Document: name, Err: err}
	}
	return nil
}
