// Package store exports parsed spoiler logs to a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/spoilerlog/spoilerlog-go/pkg/spoilerlog/spoiler"
)

// ErrNotFound is returned by Load for an unknown log ID.
var ErrNotFound = errors.New("spoiler log not found")

// Entry summarizes a saved log.
type Entry struct {
	ID             int64
	Name           string
	StartingIsland string
	Spheres        int
	CreatedAt      time.Time
}

// Store is a SQLite database of spoiler logs. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

// Option configures Open.
type Option func(*Store)

// WithLogger sets a logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.log = logger
		}
	}
}

// dsn returns a file: URI for path. Escaping keeps '?' and '#' in the path
// from being read as the start of the query or fragment.
func dsn(path string) string {
	return "file:" + url.PathEscape(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Open opens (creating if needed) the database at path and brings its schema up to date.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows a single writer; one connection keeps pragmas and
	// transactions on the same handle.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:  db,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores log under name in a single transaction and returns its ID.
func (s *Store) Save(ctx context.Context, name string, log spoiler.Log) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO logs (name, starting_island, sphere_count, created_at) VALUES (?, ?, ?, ?)`,
		name, log.StartingIsland, len(log.Playthrough), s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("inserting log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting log: %w", err)
	}

	for sphere, locs := range log.Playthrough {
		for seq, loc := range locs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO playthrough (log_id, sphere, seq, location, check_name, item) VALUES (?, ?, ?, ?, ?, ?)`,
				id, sphere, seq, loc.Location, loc.Check, loc.Item); err != nil {
				return 0, fmt.Errorf("inserting playthrough check: %w", err)
			}
		}
	}
	for seq, loc := range log.Locations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO locations (log_id, seq, location, check_name, item) VALUES (?, ?, ?, ?, ?)`,
			id, seq, loc.Location, loc.Check, loc.Item); err != nil {
			return 0, fmt.Errorf("inserting item location: %w", err)
		}
	}
	for seq, e := range log.Entrances {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entrances (log_id, seq, source, destination) VALUES (?, ?, ?, ?)`,
			id, seq, e.Source, e.Destination); err != nil {
			return 0, fmt.Errorf("inserting entrance: %w", err)
		}
	}
	for seq, c := range log.Charts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO charts (log_id, seq, chart, location) VALUES (?, ?, ?, ?)`,
			id, seq, c.Chart, c.Location); err != nil {
			return 0, fmt.Errorf("inserting chart: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing log: %w", err)
	}
	s.log.Debug("saved spoiler log", "id", id, "name", name, "checks", log.CheckCount())
	return id, nil
}

// Load rebuilds the log saved under id. Spheres keep their order, including empty ones.
func (s *Store) Load(ctx context.Context, id int64) (spoiler.Log, error) {
	var (
		log     spoiler.Log
		spheres int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT starting_island, sphere_count FROM logs WHERE id = ?`, id).
		Scan(&log.StartingIsland, &spheres)
	if errors.Is(err, sql.ErrNoRows) {
		return spoiler.Log{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return spoiler.Log{}, fmt.Errorf("loading log %d: %w", id, err)
	}

	if spheres > 0 {
		log.Playthrough = make([][]spoiler.Location, spheres)
		for i := range log.Playthrough {
			log.Playthrough[i] = []spoiler.Location{}
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT sphere, location, check_name, item FROM playthrough WHERE log_id = ? ORDER BY sphere, seq`, id)
	if err != nil {
		return spoiler.Log{}, fmt.Errorf("loading playthrough: %w", err)
	}
	err = scanRows(rows, func(rows *sql.Rows) error {
		var (
			sphere int
			loc    spoiler.Location
		)
		if err := rows.Scan(&sphere, &loc.Location, &loc.Check, &loc.Item); err != nil {
			return err
		}
		if sphere < 0 || sphere >= len(log.Playthrough) {
			return fmt.Errorf("sphere %d out of range", sphere)
		}
		log.Playthrough[sphere] = append(log.Playthrough[sphere], loc)
		return nil
	})
	if err != nil {
		return spoiler.Log{}, fmt.Errorf("loading playthrough: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT location, check_name, item FROM locations WHERE log_id = ? ORDER BY seq`, id)
	if err != nil {
		return spoiler.Log{}, fmt.Errorf("loading item locations: %w", err)
	}
	err = scanRows(rows, func(rows *sql.Rows) error {
		var loc spoiler.Location
		if err := rows.Scan(&loc.Location, &loc.Check, &loc.Item); err != nil {
			return err
		}
		log.Locations = append(log.Locations, loc)
		return nil
	})
	if err != nil {
		return spoiler.Log{}, fmt.Errorf("loading item locations: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT source, destination FROM entrances WHERE log_id = ? ORDER BY seq`, id)
	if err != nil {
		return spoiler.Log{}, fmt.Errorf("loading entrances: %w", err)
	}
	err = scanRows(rows, func(rows *sql.Rows) error {
		var e spoiler.Entrance
		if err := rows.Scan(&e.Source, &e.Destination); err != nil {
			return err
		}
		log.Entrances = append(log.Entrances, e)
		return nil
	})
	if err != nil {
		return spoiler.Log{}, fmt.Errorf("loading entrances: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT chart, location FROM charts WHERE log_id = ? ORDER BY seq`, id)
	if err != nil {
		return spoiler.Log{}, fmt.Errorf("loading charts: %w", err)
	}
	err = scanRows(rows, func(rows *sql.Rows) error {
		var c spoiler.Chart
		if err := rows.Scan(&c.Chart, &c.Location); err != nil {
			return err
		}
		log.Charts = append(log.Charts, c)
		return nil
	})
	if err != nil {
		return spoiler.Log{}, fmt.Errorf("loading charts: %w", err)
	}

	return log, nil
}

// List returns every saved log, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, starting_island, sphere_count, created_at FROM logs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing logs: %w", err)
	}

	var entries []Entry
	err = scanRows(rows, func(rows *sql.Rows) error {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.StartingIsland, &e.Spheres, &created); err != nil {
			return err
		}
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing logs: %w", err)
	}
	return entries, nil
}

// scanRows calls fn for each row and closes rows.
func scanRows(rows *sql.Rows, fn func(*sql.Rows) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
