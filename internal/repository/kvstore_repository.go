package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// KVStoreRepository provides string-keyed storage on the kv_store table.
// It backs the per-user portfolio store the same way the browser's local
// storage backed it in the single-user dashboard.
type KVStoreRepository struct {
	db *sql.DB
}

// NewKVStoreRepository creates a new KVStoreRepository with the provided database connection.
func NewKVStoreRepository(db *sql.DB) *KVStoreRepository {
	return &KVStoreRepository{db: db}
}

// Get returns the value stored under key. The boolean is false when the key is absent.
func (r *KVStoreRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query kv_store: %w", err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (r *KVStoreRepository) Set(key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write kv_store: %w", err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *KVStoreRepository) Delete(key string) error {
	if _, err := r.db.Exec(`DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete from kv_store: %w", err)
	}
	return nil
}

// KeysWithPrefix lists every key starting with prefix, ordered by key.
func (r *KVStoreRepository) KeysWithPrefix(prefix string) ([]string, error) {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)

	rows, err := r.db.Query(`SELECT key FROM kv_store WHERE key LIKE ? ESCAPE '\' ORDER BY key`, escaped+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query kv_store keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan kv_store key: %w", err)
		}
		keys = append(keys, key)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kv_store keys: %w", err)
	}
	return keys, nil
}
