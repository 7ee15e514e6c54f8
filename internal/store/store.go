// Package store persists domains, tasks and scan results in a local
// SQLite database. The database is optional: callers degrade to
// in-memory-only operation when opening it fails.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Debesyla/dago-domenai/internal/schema"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

const initSchema = `
CREATE TABLE IF NOT EXISTS domains (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL UNIQUE,
	is_registered INTEGER,
	is_active     INTEGER,
	source_domain TEXT,
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	description TEXT
);
CREATE TABLE IF NOT EXISTS results (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	domain_id  INTEGER NOT NULL REFERENCES domains(id),
	task_id    INTEGER NOT NULL REFERENCES tasks(id),
	status     TEXT NOT NULL,
	data       TEXT NOT NULL,
	checked_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_domain ON results(domain_id);
CREATE INDEX IF NOT EXISTS idx_results_checked ON results(checked_at);
`

// Domain is one row of the domains table.
type Domain struct {
	ID           int64
	Name         string
	IsRegistered *bool
	IsActive     *bool
	SourceDomain string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StoredResult is one persisted scan result with its raw record.
type StoredResult struct {
	ID        int64
	Domain    string
	Task      string
	Status    string
	Data      json.RawMessage
	CheckedAt time.Time
}

// Stats aggregates the database contents for reporting.
type Stats struct {
	Domains    int
	Registered int
	Active     int
	Results    int
	ByStatus   map[string]int
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path with foreign keys
// on, and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, initSchema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureDomain returns the domain id, inserting the row if missing.
func (s *Store) ensureDomain(ctx context.Context, name string) (int64, error) {
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO domains(name,created_at,updated_at) VALUES (?,?,?) ON CONFLICT(name) DO NOTHING`,
		name, now, now); err != nil {
		return 0, err
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM domains WHERE name=?`, name).Scan(&id)
	return id, err
}

// ensureTask returns the task id, inserting the row if missing.
func (s *Store) ensureTask(ctx context.Context, name string) (int64, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks(name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return 0, err
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM tasks WHERE name=?`, name).Scan(&id)
	return id, err
}

// SaveResult persists one finalized scan result under its task.
func (s *Store) SaveResult(ctx context.Context, domain, task string, result *schema.Result) error {
	if task == "" {
		task = "default"
	}
	domainID, err := s.ensureDomain(ctx, domain)
	if err != nil {
		return fmt.Errorf("ensure domain %s: %w", domain, err)
	}
	taskID, err := s.ensureTask(ctx, task)
	if err != nil {
		return fmt.Errorf("ensure task %s: %w", task, err)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results(domain_id,task_id,status,data,checked_at) VALUES (?,?,?,?,?)`,
		domainID, taskID, string(result.Meta.Status), string(data), time.Now().UTC())
	return err
}

// UpdateFlags sets the registration/activity flags on a domain; nil
// pointers leave the corresponding flag untouched.
func (s *Store) UpdateFlags(ctx context.Context, domain string, isRegistered, isActive *bool) error {
	if isRegistered == nil && isActive == nil {
		return nil
	}
	if _, err := s.ensureDomain(ctx, domain); err != nil {
		return err
	}
	now := time.Now().UTC()
	if isRegistered != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE domains SET is_registered=?, updated_at=? WHERE name=?`, *isRegistered, now, domain); err != nil {
			return err
		}
	}
	if isActive != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE domains SET is_active=?, updated_at=? WHERE name=?`, *isActive, now, domain); err != nil {
			return err
		}
	}
	return nil
}

// InsertCandidate records a newly discovered domain with its source.
// It reports whether a row was actually inserted; known domains are
// left untouched.
func (s *Store) InsertCandidate(ctx context.Context, domain, sourceDomain string) (bool, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO domains(name,source_domain,created_at,updated_at) VALUES (?,?,?,?) ON CONFLICT(name) DO NOTHING`,
		domain, sourceDomain, now, now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetDomain looks up one domain row by name.
func (s *Store) GetDomain(ctx context.Context, name string) (Domain, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,is_registered,is_active,COALESCE(source_domain,'') AS source_domain,created_at,updated_at
		 FROM domains WHERE name=?`, name)
	return scanDomain(row)
}

func scanDomain(row *sql.Row) (Domain, error) {
	var d Domain
	var reg, act sql.NullBool
	err := row.Scan(&d.ID, &d.Name, &reg, &act, &d.SourceDomain, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return d, ErrNotFound
	}
	if err != nil {
		return d, err
	}
	if reg.Valid {
		d.IsRegistered = &reg.Bool
	}
	if act.Valid {
		d.IsActive = &act.Bool
	}
	return d, nil
}

// ListDomains returns every known domain, newest first.
func (s *Store) ListDomains(ctx context.Context) ([]Domain, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,name,is_registered,is_active,COALESCE(source_domain,'') AS source_domain,created_at,updated_at
		 FROM domains ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []Domain
	for rows.Next() {
		var d Domain
		var reg, act sql.NullBool
		if err := rows.Scan(&d.ID, &d.Name, &reg, &act, &d.SourceDomain, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if reg.Valid {
			d.IsRegistered = &reg.Bool
		}
		if act.Valid {
			d.IsActive = &act.Bool
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

const resultColumns = `SELECT r.id,d.name,t.name,r.status,r.data,r.checked_at
	 FROM results r JOIN domains d ON d.id=r.domain_id JOIN tasks t ON t.id=r.task_id`

// DomainResults returns every stored result for one domain, newest first.
func (s *Store) DomainResults(ctx context.Context, domain string) ([]StoredResult, error) {
	rows, err := s.db.QueryContext(ctx,
		resultColumns+` WHERE d.name=? ORDER BY r.checked_at DESC, r.id DESC`, domain)
	if err != nil {
		return nil, err
	}
	return collectResults(rows)
}

// LatestResults returns the newest results across all domains, at most
// limit rows (no limit when limit <= 0).
func (s *Store) LatestResults(ctx context.Context, limit int) ([]StoredResult, error) {
	q := resultColumns + ` ORDER BY r.checked_at DESC, r.id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, q+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	return collectResults(rows)
}

func collectResults(rows *sql.Rows) ([]StoredResult, error) {
	defer rows.Close()
	var results []StoredResult
	for rows.Next() {
		var r StoredResult
		var data string
		if err := rows.Scan(&r.ID, &r.Domain, &r.Task, &r.Status, &data, &r.CheckedAt); err != nil {
			return nil, err
		}
		r.Data = json.RawMessage(data)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Stats computes aggregate counts across the database.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByStatus: map[string]int{}}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN is_registered=1 THEN 1 ELSE 0 END),0),
		        COALESCE(SUM(CASE WHEN is_active=1 THEN 1 ELSE 0 END),0)
		 FROM domains`).Scan(&stats.Domains, &stats.Registered, &stats.Active)
	if err != nil {
		return stats, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM results GROUP BY status`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return stats, err
		}
		stats.ByStatus[status] = n
		stats.Results += n
	}
	return stats, rows.Err()
}
