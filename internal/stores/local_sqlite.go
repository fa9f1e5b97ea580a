package stores

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type sqliteLocal struct {
	conn *sql.DB
}

// NewSqliteLocal returns a LocalStore backed by an embedded SQLite database
// and creates its key-value table if missing.
func NewSqliteLocal(conn *sql.DB) (LocalStore, error) {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS local_store (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)
	`)

	if err != nil {
		return nil, fmt.Errorf("failed to create local store table: %w", err)
	}

	return &sqliteLocal{conn: conn}, nil
}

func (s sqliteLocal) Read(key string) ([]byte, error) {
	var value []byte
	err := s.conn.QueryRow("SELECT value FROM local_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to read local store key")
		return nil, ErrUnavailable
	}

	return value, nil
}

func (s sqliteLocal) Write(key string, value []byte) error {
	_, err := s.conn.Exec(
		"INSERT INTO local_store (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value",
		key, value,
	)

	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to write local store key")
		return ErrUnavailable
	}

	return nil
}

func (s sqliteLocal) Remove(key string) error {
	if _, err := s.conn.Exec("DELETE FROM local_store WHERE key = ?", key); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to remove local store key")
		return ErrUnavailable
	}

	return nil
}

func (s sqliteLocal) Keys(prefix string) ([]string, error) {
	rows, err := s.conn.Query(
		"SELECT key FROM local_store WHERE key LIKE ? || '%' ORDER BY key",
		prefix,
	)

	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to list local store keys")
		return nil, ErrUnavailable
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, ErrUnavailable
		}

		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, ErrUnavailable
	}

	return keys, nil
}
