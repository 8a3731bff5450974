package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

type plan struct {
	sentinel string
	steps    []migrationStep
}

var plans = map[string]plan{
	"postgres": {
		sentinel: "SELECT to_regclass('public.kv_entries') IS NOT NULL",
		steps: []migrationStep{
			{
				Name: "create_table_kv_entries",
				SQL: `CREATE TABLE IF NOT EXISTS kv_entries (
  key        TEXT        PRIMARY KEY,
  value      TEXT        NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
			},
		},
	},
	"sqlite": {
		sentinel: "SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'kv_entries')",
		steps: []migrationStep{
			{
				Name: "create_table_kv_entries",
				SQL: `CREATE TABLE IF NOT EXISTS kv_entries (
  key        TEXT      PRIMARY KEY,
  value      TEXT      NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
			},
		},
	},
}

// EnsureMigrated checks if the kv_entries table exists and runs migrations if it doesn't.
// dialect is "postgres" or "sqlite".
func EnsureMigrated(ctx context.Context, db *sql.DB, dialect string, log *zap.Logger) error {
	p, ok := plans[dialect]
	if !ok {
		return fmt.Errorf("unsupported migration dialect: %s", dialect)
	}

	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("dialect", dialect))
	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, p.sentinel).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range p.steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
