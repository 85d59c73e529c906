package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/prodscout/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
)

// memoryDSN opens a private in-memory database.
const memoryDSN = "file::memory:?_pragma=busy_timeout(5000)"

// Ensure ResultCache implements the interface.
var _ driven.ResultCache = (*ResultCache)(nil)

// ResultCache stores settled outcomes as JSON rows in an in-memory database.
type ResultCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewResultCache opens the in-memory database and runs migrations.
// Entries expire after ttl; a non-positive ttl keeps them until Close.
func NewResultCache(ttl time.Duration) (*ResultCache, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	c := &ResultCache{db: db, ttl: ttl, now: time.Now}

	if err := c.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the database, discarding every entry.
func (c *ResultCache) Close() error {
	return c.db.Close()
}

// Put stores or replaces the state cached under query.
func (c *ResultCache) Put(ctx context.Context, query string, state domain.ReducerState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshalling state: %w", err)
	}

	now := c.now()
	var expires int64
	if c.ttl > 0 {
		expires = now.Add(c.ttl).UnixNano()
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO result_cache (query, kind, state, stored_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET
			kind = excluded.kind,
			state = excluded.state,
			stored_at = excluded.stored_at,
			expires_at = excluded.expires_at
	`, query, state.Kind.String(), string(raw), now.UnixNano(), expires)
	if err != nil {
		return fmt.Errorf("saving cached result: %w", err)
	}

	return c.prune(ctx, now)
}

// Get returns the state cached under query.
func (c *ResultCache) Get(ctx context.Context, query string) (domain.ReducerState, error) {
	var raw string
	var expires int64
	row := c.db.QueryRowContext(ctx,
		`SELECT state, expires_at FROM result_cache WHERE query = ?`, query)
	if err := row.Scan(&raw, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ReducerState{}, domain.ErrNotFound
		}
		return domain.ReducerState{}, fmt.Errorf("loading cached result: %w", err)
	}

	if expires != 0 && c.now().UnixNano() >= expires {
		return domain.ReducerState{}, domain.ErrNotFound
	}

	var state domain.ReducerState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return domain.ReducerState{}, fmt.Errorf("unmarshalling state: %w", err)
	}
	return state, nil
}

// Delete removes a cached query.
func (c *ResultCache) Delete(ctx context.Context, query string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM result_cache WHERE query = ?`, query); err != nil {
		return fmt.Errorf("deleting cached result: %w", err)
	}
	return nil
}

// Len returns the number of stored rows, expired ones included.
func (c *ResultCache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM result_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cached results: %w", err)
	}
	return n, nil
}

func (c *ResultCache) prune(ctx context.Context, now time.Time) error {
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM result_cache WHERE expires_at != 0 AND expires_at <= ?`, now.UnixNano())
	if err != nil {
		return fmt.Errorf("pruning cached results: %w", err)
	}
	return nil
}

// migrate runs all pending migrations.
func (c *ResultCache) migrate(fsys fs.FS) error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := c.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_result_cache.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := c.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := c.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
