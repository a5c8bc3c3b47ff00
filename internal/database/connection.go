package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. A DATABASE_URL
// environment variable selects Postgres; otherwise a local SQLite file
// is used.
func Connect() error {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return Open("postgres", dsn)
	}

	// Create data directory if it doesn't exist
	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}
	return Open("sqlite3", filepath.Join(dataDir, "studyplan.db"))
}

// Open connects with an explicit driver and DSN and initializes the
// schema. Tests use it to point the package at an in-memory database.
func Open(driverName, dsn string) error {
	db, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if driverName == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// insertReturningID runs an INSERT written with ? placeholders and
// returns the new row id on both supported drivers
func insertReturningID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if DB.DriverName() == "postgres" {
		var id int64
		err := DB.QueryRowxContext(ctx, DB.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	result, err := DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	refColumn := "INTEGER"
	if DB.DriverName() == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
		refColumn = "BIGINT"
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS subjects (
				id %s,
				name TEXT NOT NULL UNIQUE,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`, idColumn),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS revision_items (
				id %s,
				subject_id %s NOT NULL,
				title TEXT NOT NULL,
				next_review_at TIMESTAMP,
				review_count INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (subject_id) REFERENCES subjects(id) ON DELETE CASCADE,
				UNIQUE(subject_id, title)
			)
		`, idColumn, refColumn),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS study_sessions (
				id %s,
				subject_id %s NOT NULL,
				started_at TIMESTAMP NOT NULL,
				minutes INTEGER NOT NULL,
				notes TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (subject_id) REFERENCES subjects(id) ON DELETE CASCADE
			)
		`, idColumn, refColumn),
		`
			CREATE TABLE IF NOT EXISTS user_prefs (
				chat_id BIGINT PRIMARY KEY,
				notifications_enabled BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`,
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}
