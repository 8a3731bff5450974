package repository

import (
	"context"

	"docstore/internal/model"
)

// DocumentTypeRepository defines data access for document types.
type DocumentTypeRepository interface {
	// GetAll returns every document type. The first call against a store
	// that has never held the collection seeds model.DefaultDocumentTypes.
	GetAll(ctx context.Context) ([]model.DocumentType, error)

	// GetByID returns a document type by its ID, or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*model.DocumentType, error)

	// Save inserts the document type or replaces the one with the same ID.
	Save(ctx context.Context, dt *model.DocumentType) error

	// Delete removes a document type by ID. Missing IDs are not an error.
	Delete(ctx context.Context, id string) error
}
