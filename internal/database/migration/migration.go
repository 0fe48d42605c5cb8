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

var steps = []migrationStep{
	{
		Name: "create_table_document_types",
		SQL: `CREATE TABLE IF NOT EXISTS document_types (
  code               TEXT    PRIMARY KEY,
  name               TEXT    NOT NULL,
  category           TEXT    NOT NULL DEFAULT '',
  has_expiration     BOOLEAN NOT NULL DEFAULT false,
  requires_signature BOOLEAN NOT NULL DEFAULT false,
  active             BOOLEAN NOT NULL DEFAULT true,
  display_order      INTEGER NOT NULL DEFAULT 0,
  scope              TEXT    NOT NULL DEFAULT 'worker'
                     CHECK (scope IN ('worker', 'site_opening', 'site_extension', 'site_closing')),
  prerequisite_code  TEXT    NULL REFERENCES document_types (code)
);`,
	},
	{
		Name: "create_table_worker_documents",
		SQL: `CREATE TABLE IF NOT EXISTS worker_documents (
  id               TEXT        PRIMARY KEY,
  worker_id        TEXT        NOT NULL,
  type_code        TEXT        NOT NULL REFERENCES document_types (code),
  site_id          TEXT        NULL,
  uploaded_at      TIMESTAMPTZ NOT NULL,
  expiration_date  TIMESTAMPTZ NULL,
  validation_state TEXT        NOT NULL,
  signed           BOOLEAN     NOT NULL DEFAULT false
);`,
	},
	{
		Name: "create_index_worker_documents_worker_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_worker_documents_worker_id ON worker_documents (worker_id);`,
	},
	{
		Name: "create_table_site_assignments",
		SQL: `CREATE TABLE IF NOT EXISTS site_assignments (
  worker_id   TEXT        NOT NULL,
  site_id     TEXT        NOT NULL,
  assigned_at TIMESTAMPTZ NOT NULL,
  released_at TIMESTAMPTZ NULL,
  active      BOOLEAN     NOT NULL DEFAULT true,
  PRIMARY KEY (worker_id, site_id, assigned_at)
);`,
	},
	{
		Name: "create_index_site_assignments_active_site",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_site_assignments_active_site ON site_assignments (site_id) WHERE active;`,
	},
}

// EnsureMigrated creates the compliance schema unless the sentinel table
// document_types already exists. Steps run in order and stop at the first failure.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("checking schema", zap.String("event", "db_migration_check"))

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass('public.document_types') IS NOT NULL").Scan(&exists)
	if err != nil {
		log.Error("migration failed",
			zap.String("event", "db_migration_failed"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("schema already exists, skipping migration",
			zap.String("event", "db_migration_skip"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
		return nil
	}

	log.Info("applying schema", zap.String("event", "db_migration_start"), zap.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("migration failed",
				zap.String("event", "db_migration_failed"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()))
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("migration step applied",
			zap.String("event", "db_migration_step"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()))
	}

	log.Info("schema migrated",
		zap.String("event", "db_migration_success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
