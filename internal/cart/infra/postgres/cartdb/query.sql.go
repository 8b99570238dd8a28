package cartdb

import (
	"context"
)

const getCartState = `-- name: GetCartState :one
SELECT value FROM cart_state WHERE key = $1
`

func (q *Queries) GetCartState(ctx context.Context, key string) ([]byte, error) {
	row := q.db.QueryRowContext(ctx, getCartState, key)
	var value []byte
	err := row.Scan(&value)
	return value, err
}

const upsertCartState = `-- name: UpsertCartState :exec
INSERT INTO cart_state (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`

type UpsertCartStateParams struct {
	Key   string
	Value []byte
}

func (q *Queries) UpsertCartState(ctx context.Context, arg UpsertCartStateParams) error {
	_, err := q.db.ExecContext(ctx, upsertCartState, arg.Key, arg.Value)
	return err
}

const deleteCartState = `-- name: DeleteCartState :exec
DELETE FROM cart_state WHERE key = $1
`

func (q *Queries) DeleteCartState(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteCartState, key)
	return err
}

const listCartStateKeys = `-- name: ListCartStateKeys :many
SELECT key FROM cart_state WHERE starts_with(key, $1) ORDER BY key
`

func (q *Queries) ListCartStateKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listCartStateKeys, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		items = append(items, key)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
