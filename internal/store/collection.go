package store

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"
)

// collection owns one id-keyed document in memory. Reads share the lock,
// every mutation is staged on a copy, flushed, and only then made visible.
type collection[T any] struct {
	name string
	docs Documents

	mu    sync.RWMutex
	items map[string]T
}

func openCollection[T any](ctx context.Context, docs Documents, name string) (*collection[T], error) {
	items := make(map[string]T)
	err := docs.ReadDocument(ctx, name, &items)
	switch {
	case errors.Is(err, ErrDocumentMissing):
		items = make(map[string]T)
		if err := docs.WriteDocument(ctx, name, items); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	// a document holding JSON null decodes to a nil map
	if items == nil {
		items = make(map[string]T)
	}

	return &collection[T]{name: name, docs: docs, items: items}, nil
}

func (c *collection[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

func (c *collection[T]) all() map[string]T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.items)
}

func (c *collection[T]) ids() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// mutate runs fn on a staged copy under the write lock. The staged copy
// replaces the live items only if fn and the document write both succeed.
func (c *collection[T]) mutate(ctx context.Context, fn func(staged map[string]T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	staged := maps.Clone(c.items)
	if err := fn(staged); err != nil {
		return err
	}

	if err := c.docs.WriteDocument(ctx, c.name, staged); err != nil {
		return err
	}

	c.items = staged
	return nil
}
