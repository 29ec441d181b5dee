package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryDocuments is an in-process Documents backend. Values are stored
// encoded so callers never share memory with what was written.
type MemoryDocuments struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryDocuments creates an empty in-memory backend
func NewMemoryDocuments() *MemoryDocuments {
	return &MemoryDocuments{docs: make(map[string][]byte)}
}

// ReadDocument decodes the named document into v
func (m *MemoryDocuments) ReadDocument(_ context.Context, name string, v any) error {
	m.mu.RLock()
	data, ok := m.docs[name]
	m.mu.RUnlock()

	if !ok {
		return &IOError{Op: "read", Document: name, Err: ErrDocumentMissing}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &IOError{Op: "decode", Document: name, Err: err}
	}
	return nil
}

// WriteDocument replaces the named document with v
func (m *MemoryDocuments) WriteDocument(_ context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &IOError{Op: "encode", Document: name, Err: err}
	}

	m.mu.Lock()
	m.docs[name] = data
	m.mu.Unlock()
	return nil
}
