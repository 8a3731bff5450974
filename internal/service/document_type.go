package service

import (
	"context"
	"fmt"
	"strings"

	"docstore/internal/clock"
	"docstore/internal/model"
	"docstore/internal/repository"
)

// DocumentTypeService defines the use cases for document types.
type DocumentTypeService interface {
	List(ctx context.Context) ([]model.DocumentType, error)
	Get(ctx context.Context, id string) (*model.DocumentType, error)
	// Add creates a document type with a generated ID.
	Add(ctx context.Context, name string) (*model.DocumentType, error)
	// Rename changes the name of an existing document type.
	Rename(ctx context.Context, id, name string) (*model.DocumentType, error)
	// Delete removes a document type. Documents referencing it are left as is.
	Delete(ctx context.Context, id string) error
}

type documentTypeService struct {
	repo repository.DocumentTypeRepository
	ids  clock.IDGenerator
}

// NewDocumentTypeService constructs a new DocumentTypeService.
func NewDocumentTypeService(repo repository.DocumentTypeRepository, ids clock.IDGenerator) DocumentTypeService {
	return &documentTypeService{repo: repo, ids: ids}
}

func (s *documentTypeService) List(ctx context.Context) ([]model.DocumentType, error) {
	return s.repo.GetAll(ctx)
}

func (s *documentTypeService) Get(ctx context.Context, id string) (*model.DocumentType, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	dt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dt == nil {
		return nil, fmt.Errorf("document type %s: %w", id, ErrNotFound)
	}
	return dt, nil
}

func (s *documentTypeService) Add(ctx context.Context, name string) (*model.DocumentType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	dt := &model.DocumentType{ID: s.ids.New(), Name: name}
	if err := s.repo.Save(ctx, dt); err != nil {
		return nil, fmt.Errorf("save document type: %w", err)
	}
	return dt, nil
}

func (s *documentTypeService) Rename(ctx context.Context, id, name string) (*model.DocumentType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	dt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dt.Name = name
	if err := s.repo.Save(ctx, dt); err != nil {
		return nil, fmt.Errorf("save document type: %w", err)
	}
	return dt, nil
}

func (s *documentTypeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}

// TypeName resolves a document type ID against types, returning
// model.UnknownDocumentTypeName for dangling references.
func TypeName(types []model.DocumentType, id string) string {
	for _, t := range types {
		if t.ID == id {
			return t.Name
		}
	}
	return model.UnknownDocumentTypeName
}
