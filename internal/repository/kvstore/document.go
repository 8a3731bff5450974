package kvstore

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"docstore/internal/clock"
	"docstore/internal/model"
	"docstore/internal/repository"
	"docstore/internal/storage"
)

// DocumentStore is a key-value implementation of repository.DocumentRepository.
// Read-modify-write sequences are serialised per instance; use exactly one
// instance per store.
type DocumentStore struct {
	mu    sync.Mutex
	coll  collection[model.Document]
	clock clock.Clock
}

// NewDocumentStore creates a DocumentStore persisting under repository.DocumentsKey.
func NewDocumentStore(store storage.Store, c clock.Clock, log *zap.Logger) *DocumentStore {
	return &DocumentStore{
		coll:  collection[model.Document]{store: store, key: repository.DocumentsKey, log: log},
		clock: c,
	}
}

var _ repository.DocumentRepository = (*DocumentStore)(nil)

// GetAll returns all documents with repaired creation dates.
func (r *DocumentStore) GetAll(ctx context.Context) ([]model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadRepaired(ctx)
}

// FindByID returns the document with the given ID, or nil.
func (r *DocumentStore) FindByID(ctx context.Context, id string) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.loadRepaired(ctx)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].ID == id {
			d := docs[i]
			return &d, nil
		}
	}
	return nil, nil
}

// Save replaces the document with the same ID in place or appends it.
func (r *DocumentStore) Save(ctx context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.loadRepaired(ctx)
	if err != nil {
		return nil, err
	}
	docs = upsert(docs, *doc, func(d model.Document) string { return d.ID })
	if err := r.coll.persist(ctx, docs); err != nil {
		return nil, err
	}
	out := *doc
	return &out, nil
}

// Delete does not touch storage. Documents are deleted by flipping their
// status through Save.
func (r *DocumentStore) Delete(context.Context, string) error {
	return nil
}

// loadRepaired reads the collection and replaces missing or unparseable
// creation dates with today's date. Repairs are written back at once so a
// second read returns the same date.
func (r *DocumentStore) loadRepaired(ctx context.Context) ([]model.Document, error) {
	docs, _, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}

	changed := false
	today := clock.Today(r.clock)
	for i := range docs {
		if !ValidDate(docs[i].CreationDate) {
			docs[i].CreationDate = today
			changed = true
		}
	}
	if changed {
		if err := r.coll.persist(ctx, docs); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// dateLayouts are the creation date encodings accepted as valid: ISO dates
// and timestamps, slash-separated dates, and the textual forms browsers
// produce from Date.toString and toUTCString.
var dateLayouts = []string{
	model.DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon Jan 02 2006",
	time.RFC1123,
}

// ValidDate reports whether s parses as a calendar date or timestamp.
func ValidDate(s string) bool {
	if s == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
