package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version of the local SQLite database.
const SchemaVersion = 1

// Migrate ensures the SQLite schema exists and is at the current SchemaVersion.
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}

	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`)
	if err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current)
	if err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}

	if current >= SchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS medications (
			id TEXT PRIMARY KEY NOT NULL,
			name TEXT NOT NULL,
			dosage TEXT NOT NULL,
			time TEXT NOT NULL,
			frequency TEXT NOT NULL,
			selected_days TEXT NULL,
			selected_dates TEXT NULL,
			color TEXT NOT NULL,
			icon TEXT NOT NULL,
			taken INTEGER NOT NULL DEFAULT 0,
			notes TEXT NULL,
			taken_date TEXT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create medications table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS daily_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT UNIQUE NOT NULL,
			total_medications INTEGER NOT NULL,
			taken_medications INTEGER NOT NULL,
			medications TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create daily_history table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create meta table: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?);`, SchemaVersion)
	if err != nil {
		return fmt.Errorf("migrate: record version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}
	return nil
}
