package repository

import (
	"context"

	"docstore/internal/model"
)

// Storage keys of the persisted collections.
const (
	DocumentsKey     = "documents"
	DocumentTypesKey = "documentTypes"
)

// DocumentRepository defines data access for documents.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// GetAll returns every document regardless of status, repairing invalid
	// creation dates and persisting the repair.
	GetAll(ctx context.Context) ([]model.Document, error)

	// FindByID returns a document by its ID, or nil when it does not exist.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// Save inserts the document or replaces the one with the same ID.
	// Returns the stored document.
	Save(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Delete is reserved. Documents are deleted logically by the service
	// layer through Save; implementations leave storage untouched.
	Delete(ctx context.Context, id string) error
}
