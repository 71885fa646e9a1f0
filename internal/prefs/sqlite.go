package prefs

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBFile is the database file name inside the data directory
const DBFile = "preferences.db"

// SQLiteStore keeps named stores as rows of one shared table
type SQLiteStore struct {
	db   *sql.DB
	name string
}

// OpenSQLite creates or opens <dir>/preferences.db and scopes it to name
func OpenSQLite(dir, name string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dbPath := filepath.Join(dir, DBFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite handles one writer at a time

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db, name: name}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS preferences (
			store TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (store, key)
		)
	`)
	return err
}

func (s *SQLiteStore) GetString(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(
		`SELECT value FROM preferences WHERE store = ? AND key = ?`,
		s.name, key,
	).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s/%s: %w", s.name, key, err)
	}
	return v, true, nil
}

func (s *SQLiteStore) PutString(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (store, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(store, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, s.name, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("put preference %s/%s: %w", s.name, key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
