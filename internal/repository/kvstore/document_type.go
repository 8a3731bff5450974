package kvstore

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"docstore/internal/model"
	"docstore/internal/repository"
	"docstore/internal/storage"
)

// DocumentTypeStore is a key-value implementation of repository.DocumentTypeRepository.
type DocumentTypeStore struct {
	mu   sync.Mutex
	coll collection[model.DocumentType]
}

// NewDocumentTypeStore creates a DocumentTypeStore persisting under repository.DocumentTypesKey.
func NewDocumentTypeStore(store storage.Store, log *zap.Logger) *DocumentTypeStore {
	return &DocumentTypeStore{
		coll: collection[model.DocumentType]{store: store, key: repository.DocumentTypesKey, log: log},
	}
}

var _ repository.DocumentTypeRepository = (*DocumentTypeStore)(nil)

// GetAll returns all document types, seeding the defaults on first use.
func (r *DocumentTypeStore) GetAll(ctx context.Context) ([]model.DocumentType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadSeeded(ctx)
}

// GetByID returns the document type with the given ID, or nil.
func (r *DocumentTypeStore) GetByID(ctx context.Context, id string) (*model.DocumentType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	types, err := r.loadSeeded(ctx)
	if err != nil {
		return nil, err
	}
	for i := range types {
		if types[i].ID == id {
			dt := types[i]
			return &dt, nil
		}
	}
	return nil, nil
}

// Save replaces the document type with the same ID in place or appends it.
func (r *DocumentTypeStore) Save(ctx context.Context, dt *model.DocumentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	types, err := r.loadSeeded(ctx)
	if err != nil {
		return err
	}
	types = upsert(types, *dt, func(t model.DocumentType) string { return t.ID })
	return r.coll.persist(ctx, types)
}

// Delete removes the document type with the given ID.
func (r *DocumentTypeStore) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	types, err := r.loadSeeded(ctx)
	if err != nil {
		return err
	}
	kept := types[:0]
	for _, t := range types {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return r.coll.persist(ctx, kept)
}

// loadSeeded reads the collection, writing the default types when the key
// has never been stored. A stored empty array is not reseeded.
func (r *DocumentTypeStore) loadSeeded(ctx context.Context) ([]model.DocumentType, error) {
	types, present, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	if present {
		return types, nil
	}
	defaults := model.DefaultDocumentTypes()
	if err := r.coll.persist(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}
