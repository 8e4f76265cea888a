package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"ubd/internal/rule"
)

// ResultCache stores per-file diagnostics keyed by file path, content
// hash, and policy fingerprint. A hit means the file and the effective
// policy are both unchanged since the entry was written.
type ResultCache struct {
	db *DB
}

// NewResultCache creates a cache over an open database.
func NewResultCache(db *DB) *ResultCache {
	return &ResultCache{db: db}
}

// ContentKey hashes file contents for cache lookup.
func ContentKey(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// PolicyKey fingerprints a policy so toggling a category invalidates
// cached results.
func PolicyKey(p rule.Policy) string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get retrieves cached diagnostics. The second return value reports
// whether an entry was found.
func (c *ResultCache) Get(path, contentKey, policyKey string, out interface{}) (bool, error) {
	var diagnosticsJSON string

	err := c.db.QueryRow(`
		SELECT diagnostics_json
		FROM check_results
		WHERE path = ? AND content_sha256 = ? AND policy_sha256 = ?
	`, path, contentKey, policyKey).Scan(&diagnosticsJSON)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache lookup failed: %w", err)
	}

	if err := json.Unmarshal([]byte(diagnosticsJSON), out); err != nil {
		return false, fmt.Errorf("invalid cached diagnostics: %w", err)
	}

	return true, nil
}

// Put stores diagnostics for a file, replacing any prior entry for the
// same key. Stale entries for other content hashes of the same path are
// dropped so the table tracks at most one row per (path, policy).
func (c *ResultCache) Put(path, contentKey, policyKey string, diagnostics interface{}) error {
	data, err := json.Marshal(diagnostics)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	return c.db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			DELETE FROM check_results
			WHERE path = ? AND policy_sha256 = ?
		`, path, policyKey); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO check_results (path, content_sha256, policy_sha256, diagnostics_json, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, path, contentKey, policyKey, string(data), time.Now().UTC().Format(time.RFC3339))
		return err
	})
}

// Clear removes every cached entry.
func (c *ResultCache) Clear() error {
	_, err := c.db.Exec("DELETE FROM check_results")
	return err
}
