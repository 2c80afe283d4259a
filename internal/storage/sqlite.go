package storage

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/martinsuchenak/netorg/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteStorage implements Storage with SQLite backend
type SQLiteStorage struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLite-based storage
func NewSQLiteStorage(dataDir string) (*SQLiteStorage, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "netorg.db")

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ss := &SQLiteStorage{
		db:   db,
		path: dbPath,
	}

	if err := ss.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return ss, nil
}

// initSchema creates the database schema
func (ss *SQLiteStorage) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}

	_, err = ss.db.Exec(string(schema))
	return err
}

// Close closes the database connection
func (ss *SQLiteStorage) Close() error {
	return ss.db.Close()
}

// SaveRun stores the full run result plus its summary columns, and records
// a reservation row for each entry that was actually committed.
func (ss *SQLiteStorage) SaveRun(result *model.Result) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if result.RunID == "" {
		return ErrInvalidID
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}

	tx, err := ss.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, started_at, finished_at, applied, total, organized, unclassified, rejected, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.RunID, result.StartedAt, result.FinishedAt, result.Applied,
		result.Summary.Total, result.Summary.Organized, result.Summary.Unclassified,
		result.Summary.Rejected, payload)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, entry := range result.Organized {
		if !entry.Committed {
			continue
		}
		_, err = tx.Exec(`
			INSERT INTO reservations (mac, ip, category, name, run_id, committed_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (mac) DO UPDATE SET
				ip = excluded.ip,
				category = excluded.category,
				name = excluded.name,
				run_id = excluded.run_id,
				committed_at = excluded.committed_at
		`, entry.MAC, entry.AssignedIP, entry.Category, entry.Name, result.RunID, result.FinishedAt)
		if err != nil {
			return fmt.Errorf("inserting reservation %s: %w", entry.MAC, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run by ID
func (ss *SQLiteStorage) GetRun(id string) (*model.Result, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	var payload []byte
	err := ss.db.QueryRow("SELECT result FROM runs WHERE id = ?", id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	var result model.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", id, err)
	}

	return &result, nil
}

// ListRuns returns run summaries, newest first
func (ss *SQLiteStorage) ListRuns(limit int) ([]RunSummary, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := ss.db.Query(`
		SELECT id, started_at, finished_at, applied, total, organized, unclassified, rejected
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Applied,
			&r.Total, &r.Organized, &r.Unclassified, &r.Rejected)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// DeleteRun removes a run
func (ss *SQLiteStorage) DeleteRun(id string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	result, err := ss.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrRunNotFound
	}

	return nil
}

// ListReservations returns the current reservation per MAC address
func (ss *SQLiteStorage) ListReservations() ([]Reservation, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	rows, err := ss.db.Query(`
		SELECT mac, ip, category, name, run_id, committed_at
		FROM reservations
		ORDER BY ip
	`)
	if err != nil {
		return nil, fmt.Errorf("querying reservations: %w", err)
	}
	defer rows.Close()

	var reservations []Reservation
	for rows.Next() {
		var r Reservation
		if err := rows.Scan(&r.MAC, &r.IP, &r.Category, &r.Name, &r.RunID, &r.CommittedAt); err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		reservations = append(reservations, r)
	}

	return reservations, rows.Err()
}

// GetDatabasePath returns the database file path
func (ss *SQLiteStorage) GetDatabasePath() string {
	return ss.path
}
