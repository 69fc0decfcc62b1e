package credential

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"roadtrip/internal/logging"
)

// SQLiteStore persists the token in a key/value table, the on-disk equivalent of
// browser local storage. Every Token call reads the row again.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	key    string
}

// NewSQLiteStore opens (or creates) the database at path and stores the token under key.
func NewSQLiteStore(path, key string) (*SQLiteStore, error) {
	if key == "" {
		key = "token"
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0700); err != nil {
			logging.CredentialError("Failed to create directory %s: %v", dir, err)
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logging.CredentialError("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.CredentialDebug("Failed to set sqlite busy_timeout: %v", err)
	}

	s := &SQLiteStore{db: db, dbPath: path, key: key}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.CredentialDebug("Opened credential store at %s (key=%s)", path, key)
	return s, nil
}

// initialize creates the required table.
func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS local_storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create local_storage table: %w", err)
	}
	return nil
}

// Token reads the token row. Read failures are logged and reported as absent.
func (s *SQLiteStore) Token() (string, bool) {
	var raw string
	err := s.db.QueryRow("SELECT value FROM local_storage WHERE key = ?", s.key).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logging.CredentialError("Failed to read token: %v", err)
		}
		return "", false
	}
	return Normalize(raw)
}

// SetToken upserts the token row.
func (s *SQLiteStore) SetToken(token string) error {
	_, err := s.db.Exec(`
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		s.key, token)
	if err != nil {
		logging.CredentialError("Failed to store token: %v", err)
		return fmt.Errorf("failed to store token: %w", err)
	}
	logging.Credential("Token stored (key=%s)", s.key)
	return nil
}

// ClearToken deletes the token row.
func (s *SQLiteStore) ClearToken() error {
	if _, err := s.db.Exec("DELETE FROM local_storage WHERE key = ?", s.key); err != nil {
		logging.CredentialError("Failed to clear token: %v", err)
		return fmt.Errorf("failed to clear token: %w", err)
	}
	logging.Credential("Token cleared (key=%s)", s.key)
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
