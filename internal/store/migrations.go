package store

import (
	"context"
	"fmt"
	"strings"
)

// migration is one ordered schema change.
type migration struct {
	ID          int
	Description string
	SQL         string
}

// migrations are applied in order; applied IDs are recorded in schema_version.
var migrations = []migration{
	{
		ID:          1,
		Description: "spoiler log tables",
		SQL: `
CREATE TABLE IF NOT EXISTS logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	starting_island TEXT NOT NULL DEFAULT '',
	sphere_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS playthrough (
	log_id INTEGER NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
	sphere INTEGER NOT NULL,
	seq INTEGER NOT NULL,
	location TEXT NOT NULL,
	check_name TEXT NOT NULL,
	item TEXT NOT NULL,
	PRIMARY KEY (log_id, sphere, seq)
);
CREATE TABLE IF NOT EXISTS locations (
	log_id INTEGER NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	location TEXT NOT NULL,
	check_name TEXT NOT NULL,
	item TEXT NOT NULL,
	PRIMARY KEY (log_id, seq)
);
CREATE TABLE IF NOT EXISTS entrances (
	log_id INTEGER NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	source TEXT NOT NULL,
	destination TEXT NOT NULL,
	PRIMARY KEY (log_id, seq)
);
CREATE TABLE IF NOT EXISTS charts (
	log_id INTEGER NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	chart TEXT NOT NULL,
	location TEXT NOT NULL,
	PRIMARY KEY (log_id, seq)
);`,
	},
	{
		ID:          2,
		Description: "item lookup indexes",
		SQL: `
CREATE INDEX IF NOT EXISTS idx_playthrough_item ON playthrough(item);
CREATE INDEX IF NOT EXISTS idx_locations_item ON locations(item);`,
	},
}

// migrate applies every migration newer than the recorded schema version.
func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.ID <= current {
			continue
		}
		s.log.Debug("applying migration", "id", m.ID, "description", m.Description)
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("applying migration %d: %w", m.ID, err)
		}
	}
	return nil
}

func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	return version, err
}

func (s *Store) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range strings.Split(m.SQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, m.ID); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	return tx.Commit()
}
