// Package kvstore implements the repositories over a storage.Store. Each
// entity type is kept as one JSON array under its own key.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"docstore/internal/storage"
)

// collection reads and writes one JSON array stored under a single key.
type collection[T any] struct {
	store storage.Store
	key   string
	log   *zap.Logger
}

// load returns the stored items. present is false when the key has never
// been written. A blob that is not a JSON array is logged and read as empty;
// elements that fail to decode are logged and skipped, the rest are kept.
func (c collection[T]) load(ctx context.Context) (items []T, present bool, err error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", c.key, err)
	}
	if !ok || raw == "" {
		return []T{}, false, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		c.log.Warn("stored collection is malformed, reading as empty",
			zap.String("key", c.key),
			zap.Error(err),
		)
		return []T{}, true, nil
	}
	items = make([]T, 0, len(elems))
	for i, elem := range elems {
		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			c.log.Warn("skipping malformed stored element",
				zap.String("key", c.key),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	return items, true, nil
}

// persist replaces the whole collection.
func (c collection[T]) persist(ctx context.Context, items []T) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}
