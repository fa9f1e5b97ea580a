package configs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

type Db struct {
	Conn *pgxpool.Pool
}

func NewDb(ctx context.Context, databaseURL string) (Db, error) {
	conn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return Db{}, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return Db{}, fmt.Errorf("failed to ping database: %w", err)
	}

	return Db{Conn: conn}, nil
}

type LocalDb struct {
	Conn *sql.DB
}

// NewLocalDb opens the embedded SQLite database backing the local store.
// An empty path falls back to an in-memory database, which is enough for
// sessions that never run anonymously.
func NewLocalDb(path string) (LocalDb, error) {
	if path == "" {
		path = ":memory:"
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return LocalDb{}, fmt.Errorf("failed to open local database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return LocalDb{}, fmt.Errorf("failed to ping local database: %w", err)
	}

	return LocalDb{Conn: conn}, nil
}
