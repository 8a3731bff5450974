package service

import (
	"context"
	"fmt"

	"docstore/internal/clock"
	"docstore/internal/model"
	"docstore/internal/repository"
)

// File is a decoded document attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Create assigns a new random ID and the active status, defaults a missing
	// creation date to today, and saves the document.
	Create(ctx context.Context, in model.DocumentInput) (*model.Document, error)

	// Update saves the given document verbatim, including its status.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Delete marks a document as deleted. The record stays in storage.
	Delete(ctx context.Context, id string) error

	// Reactivate marks a deleted document as active again.
	Reactivate(ctx context.Context, id string) error

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// List returns every document regardless of status.
	List(ctx context.Context) ([]model.Document, error)

	// Download decodes the document's attachment.
	Download(ctx context.Context, id string) (*File, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	repo  repository.DocumentRepository
	ids   clock.IDGenerator
	clock clock.Clock
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(repo repository.DocumentRepository, ids clock.IDGenerator, c clock.Clock) DocumentService {
	return &documentService{repo: repo, ids: ids, clock: c}
}

func (s *documentService) Create(ctx context.Context, in model.DocumentInput) (*model.Document, error) {
	doc := &model.Document{
		ID:             s.ids.New(),
		Name:           in.Name,
		DocumentTypeID: in.DocumentTypeID,
		CreationDate:   in.CreationDate,
		FileContent:    in.FileContent,
		FileName:       in.FileName,
		FileType:       in.FileType,
		Description:    in.Description,
		Status:         model.StatusActive,
	}
	if doc.CreationDate == "" {
		doc.CreationDate = clock.Today(s.clock)
	}

	stored, err := s.repo.Save(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return stored, nil
}

func (s *documentService) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if doc.ID == "" {
		return nil, ErrIDRequired
	}
	if !doc.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, doc.Status)
	}
	stored, err := s.repo.Save(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return stored, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, model.StatusDeleted)
}

func (s *documentService) Reactivate(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, model.StatusActive)
}

// setStatus fetches the document, flips its status and saves it.
// The repository's Delete is never used for documents.
func (s *documentService) setStatus(ctx context.Context, id string, status model.Status) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	doc.Status = status
	if _, err := s.repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	return s.repo.GetAll(ctx)
}

func (s *documentService) Download(ctx context.Context, id string) (*File, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.FileContent == "" || doc.FileName == "" {
		return nil, ErrNoAttachment
	}
	mimeType, data, err := DecodeDataURI(doc.FileContent)
	if err != nil {
		return nil, err
	}
	if doc.FileType != "" {
		mimeType = doc.FileType
	}
	return &File{Name: doc.FileName, ContentType: mimeType, Data: data}, nil
}

// FilterByStatus returns the documents with the given status. An empty
// status returns docs unchanged.
func FilterByStatus(docs []model.Document, status model.Status) []model.Document {
	if status == "" {
		return docs
	}
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out
}
