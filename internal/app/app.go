// Package app wires storage, repositories, services and state holders into
// the object graph shared by the HTTP server and the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"docstore/internal/clock"
	"docstore/internal/config"
	"docstore/internal/database"
	"docstore/internal/database/migration"
	"docstore/internal/repository/kvstore"
	"docstore/internal/service"
	"docstore/internal/state"
	"docstore/internal/storage"
)

var (
	openSQLite   = database.NewSQLite
	openPostgres = database.NewPostgres
	openMinIO    = func(cfg config.MinIOConfig) (storage.Store, error) { return storage.NewMinIO(cfg) }
	migrate      = migration.EnsureMigrated
)

// App holds one store and one repository per key for the whole process.
type App struct {
	Store         storage.Store
	Notifier      *state.Notifier
	Documents     *state.DocumentState
	DocumentTypes *state.DocumentTypeState

	close func() error
}

// New opens the configured backend and builds the state holders on top of
// it. surface may be nil.
func New(ctx context.Context, cfg *config.AppConfig, log *zap.Logger, surface state.Surface) (*App, error) {
	store, closeFn, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return Assemble(store, closeFn, cfg, log, surface), nil
}

// Assemble builds the repositories, services and state holders over store.
func Assemble(store storage.Store, closeFn func() error, cfg *config.AppConfig, log *zap.Logger, surface state.Surface) *App {
	c := clock.RealClock{Location: cfg.Location()}
	ids := clock.UUIDGenerator{}

	docRepo := kvstore.NewDocumentStore(store, c, log)
	typeRepo := kvstore.NewDocumentTypeStore(store, log)

	notifier := state.NewNotifier(cfg.Notification.Timeout(), c, surface)
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return &App{
		Store:         store,
		Notifier:      notifier,
		Documents:     state.NewDocumentState(service.NewDocumentService(docRepo, ids, c), notifier, log),
		DocumentTypes: state.NewDocumentTypeState(service.NewDocumentTypeService(typeRepo, ids), log),
		close:         closeFn,
	}
}

// Load fills both caches. The document types are seeded on first use.
func (a *App) Load(ctx context.Context) error {
	if err := a.DocumentTypes.Load(ctx); err != nil {
		return fmt.Errorf("load document types: %w", err)
	}
	if err := a.Documents.Load(ctx); err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	return nil
}

// Close stops the notifier timer and releases the backend.
func (a *App) Close() error {
	a.Notifier.Close()
	return a.close()
}

// OpenStore opens the backend named by cfg.Storage.Backend. SQL backends are
// migrated before use. The returned function releases the backend.
func OpenStore(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (storage.Store, func() error, error) {
	log = log.With(zap.String("backend", cfg.Storage.Backend))

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory storage, data is lost on exit")
		return storage.NewMemory(), func() error { return nil }, nil

	case config.BackendSQLite:
		db, err := openSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return sqlStore(ctx, db, storage.SQLite, log)

	case config.BackendPostgres:
		db, err := openPostgres(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return sqlStore(ctx, db, storage.Postgres, log)

	case config.BackendMinIO:
		store, err := openMinIO(cfg.MinIO)
		if err != nil {
			return nil, nil, fmt.Errorf("open minio: %w", err)
		}
		return store, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func sqlStore(ctx context.Context, db *sql.DB, dialect storage.Dialect, log *zap.Logger) (storage.Store, func() error, error) {
	if err := migrate(ctx, db, dialect.Name, log); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate %s: %w", dialect.Name, err)
	}
	log.Info("storage ready")
	return storage.NewSQL(db, dialect), db.Close, nil
}
