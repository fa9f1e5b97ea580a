package dbutil

import (
	"context"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RetryableTxWithData[T any](
	ctx context.Context,
	conn *pgxpool.Pool,
	f func(tx pgx.Tx) (T, error),
) (T, error) {
	retryableFunc := func() (zero T, err error) {
		var tx pgx.Tx
		tx, err = conn.Begin(ctx)
		if err != nil {
			return zero, err
		}

		defer func() {
			if err == nil {
				err = tx.Commit(ctx)
			}

			if err != nil {
				tx.Rollback(ctx)
			}
		}()

		return f(tx)
	}

	return retry.DoWithData(retryableFunc, retry.Attempts(3), retry.LastErrorOnly(true))
}

func RetryableTxWithoutData(
	ctx context.Context,
	conn *pgxpool.Pool,
	f func(tx pgx.Tx) error,
) error {
	_, err := RetryableTxWithData(ctx, conn, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, f(tx)
	})

	return err
}
