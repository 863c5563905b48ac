package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version of the submissions database.
const SchemaVersion = 1

var schemaV1 = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL CHECK (source IN ('audio', 'text', 'sms')),
		filename TEXT NOT NULL DEFAULT '',
		storage_path TEXT NOT NULL DEFAULT '',
		text_content TEXT NOT NULL DEFAULT '',
		transcript TEXT NOT NULL DEFAULT '',
		confidence REAL NOT NULL DEFAULT 0,
		sound_type TEXT NOT NULL,
		tone TEXT NOT NULL,
		caption TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected', 'posted')),
		phone_number TEXT NOT NULL DEFAULT '',
		message_sid TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);`,
	`CREATE TABLE IF NOT EXISTS post_records (
		id TEXT PRIMARY KEY,
		submission_id TEXT NOT NULL,
		external_post_id TEXT NOT NULL,
		text TEXT NOT NULL,
		url TEXT NOT NULL,
		posted_at TEXT NOT NULL,
		FOREIGN KEY(submission_id) REFERENCES submissions(id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_post_records_submission ON post_records(submission_id);`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		submission_id TEXT NOT NULL,
		recipient TEXT NOT NULL,
		message TEXT NOT NULL,
		sent INTEGER NOT NULL DEFAULT 0,
		delivery_status TEXT NOT NULL DEFAULT '',
		provider_id TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		sent_at TEXT NULL,
		FOREIGN KEY(submission_id) REFERENCES submissions(id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_submission ON notifications(submission_id);`,
}

// Migrate ensures the schema exists and is at SchemaVersion.
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current); err != nil {
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

	for i, stmt := range schemaV1 {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: statement %d: %w", i+1, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?);`, SchemaVersion); err != nil {
		return fmt.Errorf("migrate: record version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}
	return nil
}
