/*
Package sqlite provides SQLite-backed persistence for the payroll surface.

PURPOSE:
  The calculation engine is pure and stateless; this package is where the
  surrounding application keeps what it is responsible for: computed
  settlements (with their itemized trace lines, for audit), the payroll
  concept catalog, and operator-loaded table overrides. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  settlements:  Computed settlement results, result JSON included verbatim
                so the audit trail survives schema evolution
  concepts:     Configurable payroll concepts (formula text + flags)
  config_docs:  Operator-loaded table overrides (tax/subsidy/contribution),
                one JSON document per kind+name

APPEND-ONLY SETTLEMENTS:
  Settlements are never updated or deleted; a recalculation inserts a new
  row. The engine is deterministic, so identical inputs reproduce
  identical results when re-run.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - api: The HTTP layer using this store
  - factory: JSON table parsing for config_docs content
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/payroll-engine/catalog"
	"github.com/warp/payroll-engine/severance"
)

// Store persists settlements, concepts and configuration documents.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settlements (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_ref     TEXT NOT NULL DEFAULT '',
		termination_type TEXT NOT NULL,
		daily_salary     TEXT NOT NULL,
		start_date       TEXT NOT NULL,
		termination_date TEXT NOT NULL,
		total            TEXT NOT NULL,
		result_json      TEXT NOT NULL,
		created_at       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_settlements_employee ON settlements(employee_ref, created_at);

	CREATE TABLE IF NOT EXISTS concepts (
		name         TEXT PRIMARY KEY,
		concept_json TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS config_docs (
		kind       TEXT NOT NULL,
		name       TEXT NOT NULL,
		doc_json   TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (kind, name)
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// =============================================================================
// SETTLEMENTS
// =============================================================================

// SettlementRecord is a persisted settlement row.
type SettlementRecord struct {
	ID              int64
	EmployeeRef     string
	TerminationType string
	DailySalary     string
	StartDate       string
	TerminationDate string
	Total           string
	Result          *severance.SettlementResult
	CreatedAt       time.Time
}

// SaveSettlement inserts a computed settlement. Settlements are
// append-only; recalculations insert new rows.
func (s *Store) SaveSettlement(ctx context.Context, employeeRef string, result *severance.SettlementResult) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to encode settlement: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO settlements (employee_ref, termination_type, daily_salary, start_date, termination_date, total, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		employeeRef,
		string(result.Type),
		result.LaborInfo.DailySalary.String(),
		result.LaborInfo.StartDate.Format("2006-01-02"),
		result.LaborInfo.TerminationDate.Format("2006-01-02"),
		result.Total.String(),
		string(payload),
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save settlement: %w", err)
	}
	return res.LastInsertId()
}

// GetSettlement fetches one settlement with its full result. Returns
// (nil, nil) when the row does not exist.
func (s *Store) GetSettlement(ctx context.Context, id int64) (*SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_ref, termination_type, daily_salary, start_date, termination_date, total, result_json, created_at
		FROM settlements WHERE id = ?`, id)
	return scanSettlement(row)
}

// ListSettlements returns persisted settlements, newest first, optionally
// filtered by employee reference.
func (s *Store) ListSettlements(ctx context.Context, employeeRef string) ([]*SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_ref, termination_type, daily_salary, start_date, termination_date, total, result_json, created_at
		FROM settlements`
	args := []any{}
	if employeeRef != "" {
		query += ` WHERE employee_ref = ?`
		args = append(args, employeeRef)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var records []*SettlementRecord
	for rows.Next() {
		rec, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row rowScanner) (*SettlementRecord, error) {
	var rec SettlementRecord
	var resultJSON, createdAt string
	err := row.Scan(&rec.ID, &rec.EmployeeRef, &rec.TerminationType, &rec.DailySalary,
		&rec.StartDate, &rec.TerminationDate, &rec.Total, &resultJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan settlement: %w", err)
	}
	var result severance.SettlementResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to decode settlement %d: %w", rec.ID, err)
	}
	rec.Result = &result
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

// =============================================================================
// CONCEPT CATALOG
// =============================================================================

// SaveConcept upserts a catalog concept.
func (s *Store) SaveConcept(ctx context.Context, c catalog.Concept) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode concept: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO concepts (name, concept_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET concept_json = excluded.concept_json, updated_at = excluded.updated_at`,
		c.Name, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save concept: %w", err)
	}
	return nil
}

// ListConcepts returns all stored concepts ordered by name.
func (s *Store) ListConcepts(ctx context.Context) ([]catalog.Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT concept_json FROM concepts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list concepts: %w", err)
	}
	defer rows.Close()

	var concepts []catalog.Concept
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var c catalog.Concept
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			return nil, fmt.Errorf("failed to decode concept: %w", err)
		}
		concepts = append(concepts, c)
	}
	return concepts, rows.Err()
}

// DeleteConcept removes a concept by name. Returns true when a row
// existed.
func (s *Store) DeleteConcept(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM concepts WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete concept: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// =============================================================================
// CONFIGURATION DOCUMENTS - Table overrides
// =============================================================================

// SaveConfigDoc upserts an operator-loaded table document. Kind is one of
// "tax_table", "subsidy_table", "contribution_table".
func (s *Store) SaveConfigDoc(ctx context.Context, kind, name string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config_docs (kind, name, doc_json, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, name) DO UPDATE SET doc_json = excluded.doc_json, updated_at = excluded.updated_at`,
		kind, name, string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save config doc: %w", err)
	}
	return nil
}

// GetConfigDoc fetches a table document; nil when absent.
func (s *Store) GetConfigDoc(ctx context.Context, kind, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc_json FROM config_docs WHERE kind = ? AND name = ?`, kind, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get config doc: %w", err)
	}
	return []byte(payload), nil
}

// ListConfigDocs returns the names of stored documents of one kind.
func (s *Store) ListConfigDocs(ctx context.Context, kind string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM config_docs WHERE kind = ? ORDER BY name`, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list config docs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
