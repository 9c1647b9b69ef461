// Package symbols persists a flat inventory of a code base's elements to
// SQLite so tools outside the analyzer can query it.
package symbols

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"symtab/internal/core/ports"

	_ "modernc.org/sqlite"
)

const (
	sqliteDriverName = "sqlite"
	schemaVersion    = 1
)

// Snapshotter is anything that can flatten itself into inventory rows.
// *codebase.CodeBase satisfies it.
type Snapshotter interface {
	Records() []ports.SymbolRecord
}

type SQLiteStore struct {
	db         *sql.DB
	projectKey string
	lookupStmt *sql.Stmt

	cacheMu     sync.RWMutex
	lookupCache map[string][]ports.SymbolRecord
}

type Options struct {
	ProjectKey  string
	BusyTimeout time.Duration
}

func Open(path string, opts Options) (*SQLiteStore, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("symbol inventory path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("symbol inventory path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create symbol inventory directory %q: %w", dir, err)
		}
	}

	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", cleanPath, busy.Milliseconds())
	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open symbol inventory %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping symbol inventory %q: %w", cleanPath, err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	key := strings.TrimSpace(opts.ProjectKey)
	if key == "" {
		key = "default"
	}

	lookupStmt, err := db.Prepare(`SELECT
  kind, fqsen, hash, name, class_fqsen, alternate_id, file_path, line_number, internal
FROM symbols
WHERE project_key = ? AND name_key = ?
ORDER BY kind, fqsen`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare lookup stmt: %w", err)
	}

	return &SQLiteStore{
		db:          db,
		projectKey:  key,
		lookupStmt:  lookupStmt,
		lookupCache: make(map[string][]ports.SymbolRecord),
	}, nil
}

func migrate(db *sql.DB) error {
	var version int
	_ = db.QueryRow(`PRAGMA user_version`).Scan(&version)
	if version >= schemaVersion {
		return nil
	}
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS symbols (
  project_key TEXT NOT NULL,
  kind TEXT NOT NULL,
  fqsen TEXT NOT NULL,
  hash INTEGER NOT NULL,
  name TEXT NOT NULL,
  name_key TEXT NOT NULL,
  class_fqsen TEXT NOT NULL DEFAULT '',
  alternate_id INTEGER NOT NULL DEFAULT 0,
  file_path TEXT NOT NULL DEFAULT '',
  line_number INTEGER NOT NULL DEFAULT 0,
  internal INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (project_key, kind, fqsen)
);
CREATE INDEX IF NOT EXISTS idx_symbols_project_name ON symbols(project_key, name_key);
CREATE INDEX IF NOT EXISTS idx_symbols_project_file ON symbols(project_key, file_path);
PRAGMA user_version = 1;
`)
	if err != nil {
		return fmt.Errorf("create v1 schema: %w", err)
	}
	return nil
}

// ReplaceAll swaps this project's rows for records in one transaction.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, records []ports.SymbolRecord) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store not initialized")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM symbols WHERE project_key = ?`, s.projectKey); err != nil {
		return fmt.Errorf("clear project symbols: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO symbols (
  project_key, kind, fqsen, hash, name, name_key, class_fqsen, alternate_id, file_path, line_number, internal
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			s.projectKey,
			r.Kind,
			r.FQSEN,
			int64(r.Hash),
			r.Name,
			nameKey(r.Name),
			r.Class,
			r.AlternateID,
			r.File,
			r.Line,
			boolToInt(r.Internal),
		); err != nil {
			return fmt.Errorf("insert %s %s: %w", r.Kind, r.FQSEN, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	s.clearCache()
	return nil
}

// SyncFromCodeBase replaces the stored inventory with the current contents
// of src.
func (s *SQLiteStore) SyncFromCodeBase(ctx context.Context, src Snapshotter) error {
	if src == nil {
		return nil
	}
	return s.ReplaceAll(ctx, src.Records())
}

// Lookup returns every stored element whose bare name matches, across kinds.
// Matching is case-insensitive.
func (s *SQLiteStore) Lookup(name string) []ports.SymbolRecord {
	if s == nil || s.db == nil || s.lookupStmt == nil {
		return nil
	}
	key := nameKey(name)
	if key == "" {
		return nil
	}

	s.cacheMu.RLock()
	if res, ok := s.lookupCache[key]; ok {
		s.cacheMu.RUnlock()
		return res
	}
	s.cacheMu.RUnlock()

	res := s.queryRecords(s.lookupStmt, s.projectKey, key)

	s.cacheMu.Lock()
	s.lookupCache[key] = res
	s.cacheMu.Unlock()
	return res
}

// Count is the number of rows stored for this project.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM symbols WHERE project_key = ?`, s.projectKey).Scan(&n); err != nil {
		return 0, fmt.Errorf("count symbols: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if s.lookupStmt != nil {
		_ = s.lookupStmt.Close()
	}
	return s.db.Close()
}

func (s *SQLiteStore) queryRecords(stmt *sql.Stmt, args ...any) []ports.SymbolRecord {
	rows, err := stmt.Query(args...)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []ports.SymbolRecord
	for rows.Next() {
		var (
			r        ports.SymbolRecord
			hash     int64
			internal int
		)
		if err := rows.Scan(&r.Kind, &r.FQSEN, &hash, &r.Name, &r.Class, &r.AlternateID, &r.File, &r.Line, &internal); err != nil {
			return out
		}
		r.Hash = uint64(hash)
		r.Internal = internal != 0
		out = append(out, r)
	}
	return out
}

func (s *SQLiteStore) clearCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.lookupCache = make(map[string][]ports.SymbolRecord)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "$"))
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
