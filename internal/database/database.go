// Package database provides the SQLite inventory of report files used by the
// query command
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"task-reports/internal/models"
)

// InMemory is the DSN of a private in-memory database
const InMemory = ":memory:"

// DB interface defines database operations for easier testing and extensibility
type DB interface {
	Close() error
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// sqliteDB implements the DB interface for SQLite
type sqliteDB struct {
	*sql.DB
}

// Initialize opens a SQLite database and creates the reports table
// The inventory is rebuilt from the report directory on every query, so
// callers normally pass InMemory
func Initialize(dsn string) (DB, error) {
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// every new connection to :memory: is a fresh empty database
	sqlDB.SetMaxOpenConns(1)

	db := &sqliteDB{sqlDB}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables sets up the inventory schema
func createTables(db DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('current', 'archived')),
		generated_at TEXT,
		path TEXT NOT NULL,
		size INTEGER NOT NULL CHECK (size >= 0),
		completed INTEGER NOT NULL CHECK (completed >= 0),
		remaining INTEGER NOT NULL CHECK (remaining >= 0)
	);

	CREATE INDEX IF NOT EXISTS idx_reports_username ON reports(username);
	CREATE INDEX IF NOT EXISTS idx_reports_kind ON reports(kind);
	CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON reports(generated_at);
	`

	_, err := db.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// InsertReportEntries inserts inventory rows, replacing any existing ones
// A zero GeneratedAt is stored as NULL
func InsertReportEntries(db DB, entries []models.ReportEntry) (int64, error) {
	if _, err := db.Exec("DELETE FROM reports"); err != nil {
		return 0, fmt.Errorf("failed to clear existing data: %w", err)
	}

	insertSQL := `
	INSERT INTO reports (username, kind, generated_at, path, size, completed, remaining)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var insertedCount int64
	for _, entry := range entries {
		var generated interface{}
		if !entry.GeneratedAt.IsZero() {
			generated = entry.GeneratedAt.Format("2006-01-02 15:04:05")
		}

		_, err := db.Exec(insertSQL,
			entry.Username, string(entry.Kind), generated, entry.Path,
			entry.Size, entry.Completed, entry.Remaining)
		if err != nil {
			return insertedCount, fmt.Errorf("failed to insert entry for %s: %w", entry.Username, err)
		}
		insertedCount++
	}

	return insertedCount, nil
}

// ExecuteQuery executes a SQL query and returns results as a slice of maps
// along with the column names in result order
func ExecuteQuery(db DB, query string) ([]string, []map[string]interface{}, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var results []map[string]interface{}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))

		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{})
		for i, column := range columns {
			// Handle NULL values and convert byte slices to strings
			val := values[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[column] = val
		}

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return columns, results, nil
}
