// Package database provides SQLite implementation of the Store interface.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/verifyyourcart/cartcheck/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and applies migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			request_id TEXT NOT NULL,
			remote_addr TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			method TEXT NOT NULL,
			request_size INTEGER NOT NULL,
			response_code INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_logs(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LogRequest stores an audit log entry.
func (s *SQLiteStore) LogRequest(ctx context.Context, log *models.AuditLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, request_id, remote_addr, endpoint, method, request_size,
			response_code, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.RequestID, log.RemoteAddr, log.Endpoint, log.Method, log.RequestSize,
		log.ResponseCode, log.DurationMs, log.Timestamp.UTC())
	return err
}

// GetAuditLogs returns paginated audit logs, newest first.
func (s *SQLiteStore) GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, remote_addr, endpoint, method, request_size, response_code,
			duration_ms, timestamp
		FROM audit_logs ORDER BY timestamp DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*models.AuditLog{}
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.RequestID, &l.RemoteAddr, &l.Endpoint, &l.Method,
			&l.RequestSize, &l.ResponseCode, &l.DurationMs, &l.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
