package state

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"docstore/internal/model"
	"docstore/internal/service"
)

const (
	msgAdded          = "Document added successfully."
	msgAddFailed      = "Error adding document."
	msgUpdated        = "Document updated successfully."
	msgUpdateFailed   = "Error updating document."
	msgDeleted        = "Document deleted logically."
	msgDeleteFailed   = "Error deleting document."
	msgReactivated    = "Document reactivated successfully."
	msgReactivateFail = "Error reactivating document."
)

// DocumentState caches the document collection and reports the result of
// each mutation through a Notifier. Use-case failures never reach the caller;
// they become error notifications. Only validation errors are returned.
type DocumentState struct {
	svc      service.DocumentService
	notifier *Notifier
	log      *zap.Logger

	mu   sync.RWMutex
	docs []model.Document
}

func NewDocumentState(svc service.DocumentService, notifier *Notifier, log *zap.Logger) *DocumentState {
	return &DocumentState{svc: svc, notifier: notifier, log: log}
}

// Load replaces the cache with a fresh read. On failure the previous cache
// is kept.
func (s *DocumentState) Load(ctx context.Context) error {
	docs, err := s.svc.List(ctx)
	if err != nil {
		s.log.Error("load documents", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
	return nil
}

// Documents returns a copy of the cached collection.
func (s *DocumentState) Documents() []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Get reads one document straight from the use case.
func (s *DocumentState) Get(ctx context.Context, id string) (*model.Document, error) {
	return s.svc.Get(ctx, id)
}

// Download returns the decoded attachment of a document.
func (s *DocumentState) Download(ctx context.Context, id string) (*service.File, error) {
	return s.svc.Download(ctx, id)
}

func (s *DocumentState) Add(ctx context.Context, in model.DocumentInput) (model.Notification, error) {
	if err := in.Validate(); err != nil {
		return s.notifier.Current(), err
	}
	return s.mutate(ctx, "create", func() error {
		_, err := s.svc.Create(ctx, in)
		return err
	}, model.OutcomeSuccess, msgAdded, msgAddFailed), nil
}

func (s *DocumentState) Update(ctx context.Context, doc model.Document) (model.Notification, error) {
	if err := doc.Validate(); err != nil {
		return s.notifier.Current(), err
	}
	return s.mutate(ctx, "update", func() error {
		_, err := s.svc.Update(ctx, &doc)
		return err
	}, model.OutcomeSuccess, msgUpdated, msgUpdateFailed), nil
}

// Delete marks the document as deleted.
func (s *DocumentState) Delete(ctx context.Context, id string) (model.Notification, error) {
	if id == "" {
		return s.notifier.Current(), &model.FieldError{Field: "id"}
	}
	return s.mutate(ctx, "delete", func() error {
		return s.svc.Delete(ctx, id)
	}, model.OutcomeWarning, msgDeleted, msgDeleteFailed), nil
}

func (s *DocumentState) Reactivate(ctx context.Context, id string) (model.Notification, error) {
	if id == "" {
		return s.notifier.Current(), &model.FieldError{Field: "id"}
	}
	return s.mutate(ctx, "reactivate", func() error {
		return s.svc.Reactivate(ctx, id)
	}, model.OutcomeNotice, msgReactivated, msgReactivateFail), nil
}

// Notification returns the current notification snapshot.
func (s *DocumentState) Notification() model.Notification {
	return s.notifier.Current()
}

// Dismiss closes the open notification.
func (s *DocumentState) Dismiss() model.Notification {
	return s.notifier.Dismiss()
}

// mutate runs op, reloads the cache whatever the result and resolves the
// notification.
func (s *DocumentState) mutate(ctx context.Context, name string, op func() error, ok model.Outcome, okMsg, failMsg string) model.Notification {
	s.notifier.Begin()

	opErr := op()
	if opErr != nil {
		s.log.Error("document mutation failed", zap.String("op", name), zap.Error(opErr))
	}
	loadErr := s.Load(ctx)

	if opErr != nil || loadErr != nil {
		return s.notifier.Resolve(model.OutcomeError, failMsg)
	}
	return s.notifier.Resolve(ok, okMsg)
}
