package storage

import (
	"database/sql"
	"fmt"
)

// Schema version tracking
const currentSchemaVersion = 1

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createResultsTable(tx); err != nil {
			return err
		}
		if err := setSchemaVersion(tx, currentSchemaVersion); err != nil {
			return err
		}

		db.logger.Info("Database schema initialized", map[string]interface{}{
			"version": currentSchemaVersion,
		})

		return nil
	})
}

// checkSchema verifies an existing database was written by a compatible
// build. The cache is disposable, so a mismatched version drops the
// data and recreates the schema instead of migrating.
func (db *DB) checkSchema() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		return nil
	}

	db.logger.Info("Resetting results database", map[string]interface{}{
		"found_version": version,
		"want_version":  currentSchemaVersion,
	})

	return db.WithTx(func(tx *sql.Tx) error {
		for _, stmt := range []string{
			"DROP TABLE IF EXISTS check_results",
			"DROP TABLE IF EXISTS schema_version",
		} {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to reset schema: %w", err)
			}
		}
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createResultsTable(tx); err != nil {
			return err
		}
		return setSchemaVersion(tx, currentSchemaVersion)
	})
}

// getSchemaVersion gets the current schema version
func (db *DB) getSchemaVersion() (int, error) {
	var tableName string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableName)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return version, nil
}

// setSchemaVersion records the schema version
func setSchemaVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	_, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	return err
}

func createResultsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS check_results (
			path             TEXT NOT NULL,
			content_sha256   TEXT NOT NULL,
			policy_sha256    TEXT NOT NULL,
			diagnostics_json TEXT NOT NULL,
			created_at       TEXT NOT NULL,
			PRIMARY KEY (path, content_sha256, policy_sha256)
		)
	`)
	return err
}
