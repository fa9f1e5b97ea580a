package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/afdhal/swalath-backend-service/internal/dbutil"
	"github.com/afdhal/swalath-backend-service/internal/retryutil"
)

type postgresRemote struct {
	conn *pgxpool.Pool
	hub  *hub
}

// NewPostgresRemote returns a RemoteStore backed by a single JSONB document
// table and creates the table if missing. Upsert merges fields into the
// existing document the way the client-side merge write did, so partial
// updates never clobber sibling fields.
func NewPostgresRemote(ctx context.Context, conn *pgxpool.Pool) (RemoteStore, error) {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			path TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)

	if err != nil {
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	return &postgresRemote{conn: conn, hub: newHub()}, nil
}

func (p *postgresRemote) Get(ctx context.Context, path string) ([]byte, error) {
	return retryutil.RetryWithData(func() ([]byte, error) {
		var data []byte
		err := p.conn.QueryRow(ctx, "SELECT data FROM documents WHERE path = $1", path).Scan(&data)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		if err != nil {
			return nil, fmt.Errorf("failed to select document: %w", err)
		}

		return data, nil
	})
}

func (p *postgresRemote) List(ctx context.Context, prefix string) ([]Document, error) {
	return retryutil.RetryWithData(func() ([]Document, error) {
		rows, err := p.conn.Query(
			ctx,
			"SELECT path, data FROM documents WHERE path LIKE $1 || '/%' ORDER BY path",
			prefix,
		)

		if err != nil {
			return nil, fmt.Errorf("failed to select documents: %w", err)
		}
		defer rows.Close()

		var docs []Document
		for rows.Next() {
			var doc Document
			if err := rows.Scan(&doc.Path, &doc.Data); err != nil {
				return nil, fmt.Errorf("failed to scan document: %w", err)
			}

			docs = append(docs, doc)
		}

		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate documents: %w", err)
		}

		return docs, nil
	})
}

// Insert creates a document and fails with ErrAlreadyExists when the path is
// taken. Used where path uniqueness carries meaning (the email index).
func (p *postgresRemote) Insert(ctx context.Context, path string, data []byte) error {
	err := retryutil.RetryWithoutData(func() error {
		_, err := p.conn.Exec(ctx, "INSERT INTO documents (path, data) VALUES ($1, $2)", path, data)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return retry.Unrecoverable(ErrAlreadyExists)
		}

		return err
	})

	if errors.Is(err, ErrAlreadyExists) {
		return ErrAlreadyExists
	}

	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	p.hub.publish(Event{Path: path, Data: data})
	return nil
}

func (p *postgresRemote) Upsert(ctx context.Context, path string, data []byte) error {
	err := retryutil.RetryWithoutData(func() error {
		_, err := p.conn.Exec(ctx, `
			INSERT INTO documents (path, data) VALUES ($1, $2)
			ON CONFLICT (path) DO UPDATE
			SET data = documents.data || excluded.data, updated_at = now()
		`, path, data)

		return err
	})

	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	merged, err := p.Get(ctx, path)
	if err != nil {
		merged = data
	}

	p.hub.publish(Event{Path: path, Data: merged})
	return nil
}

func (p *postgresRemote) BatchUpsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	err := dbutil.RetryableTxWithoutData(ctx, p.conn, func(tx pgx.Tx) error {
		for _, doc := range docs {
			_, err := tx.Exec(ctx, `
				INSERT INTO documents (path, data) VALUES ($1, $2)
				ON CONFLICT (path) DO UPDATE
				SET data = documents.data || excluded.data, updated_at = now()
			`, doc.Path, doc.Data)

			if err != nil {
				return fmt.Errorf("failed to upsert document %s: %w", doc.Path, err)
			}
		}

		return nil
	})

	if err != nil {
		return err
	}

	for _, doc := range docs {
		p.hub.publish(Event{Path: doc.Path, Data: doc.Data})
	}

	return nil
}

func (p *postgresRemote) Delete(ctx context.Context, path string) error {
	err := retryutil.RetryWithoutData(func() error {
		_, err := p.conn.Exec(ctx, "DELETE FROM documents WHERE path = $1", path)
		return err
	})

	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	p.hub.publish(Event{Path: path, Deleted: true})
	return nil
}

func (p *postgresRemote) Subscribe(ctx context.Context, prefix string, onChange func(Event)) (func(), error) {
	unsubscribe := p.hub.add(prefix, onChange)

	data, err := p.Get(ctx, prefix)
	switch {
	case err == nil:
		onChange(Event{Path: prefix, Data: data})
	case errors.Is(err, ErrNotFound):
		docs, err := p.List(ctx, prefix)
		if err != nil {
			unsubscribe()
			return nil, err
		}

		if len(docs) == 0 {
			onChange(Event{Path: prefix, Deleted: true})
		}

		for _, doc := range docs {
			onChange(Event{Path: doc.Path, Data: doc.Data})
		}
	default:
		unsubscribe()
		return nil, err
	}

	return unsubscribe, nil
}
