package state

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"docstore/internal/model"
	"docstore/internal/service"
)

// DocumentTypeState caches the document type collection. Errors are returned
// to the caller; the cache is reloaded after every mutation attempt.
type DocumentTypeState struct {
	svc service.DocumentTypeService
	log *zap.Logger

	mu    sync.RWMutex
	types []model.DocumentType
}

func NewDocumentTypeState(svc service.DocumentTypeService, log *zap.Logger) *DocumentTypeState {
	return &DocumentTypeState{svc: svc, log: log}
}

// Load replaces the cache. The first load on an empty store seeds the
// default types.
func (s *DocumentTypeState) Load(ctx context.Context) error {
	types, err := s.svc.List(ctx)
	if err != nil {
		s.log.Error("load document types", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.types = types
	s.mu.Unlock()
	return nil
}

// Types returns a copy of the cached collection.
func (s *DocumentTypeState) Types() []model.DocumentType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.DocumentType, len(s.types))
	copy(out, s.types)
	return out
}

func (s *DocumentTypeState) Get(ctx context.Context, id string) (*model.DocumentType, error) {
	return s.svc.Get(ctx, id)
}

// NameOf resolves a type ID against the cache.
func (s *DocumentTypeState) NameOf(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return service.TypeName(s.types, id)
}

func (s *DocumentTypeState) Add(ctx context.Context, name string) (*model.DocumentType, error) {
	dt, err := s.svc.Add(ctx, name)
	return dt, s.reload(ctx, err)
}

func (s *DocumentTypeState) Rename(ctx context.Context, id, name string) (*model.DocumentType, error) {
	dt, err := s.svc.Rename(ctx, id, name)
	return dt, s.reload(ctx, err)
}

func (s *DocumentTypeState) Delete(ctx context.Context, id string) error {
	return s.reload(ctx, s.svc.Delete(ctx, id))
}

// reload refreshes the cache and returns opErr, or the reload error when the
// operation itself succeeded.
func (s *DocumentTypeState) reload(ctx context.Context, opErr error) error {
	if err := s.Load(ctx); err != nil && opErr == nil {
		return err
	}
	return opErr
}
