package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/app"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/infra/postgres/cartdb"
)

// StateRepo stores serialized carts in the cart_state table.
type StateRepo struct {
	q *cartdb.Queries
}

func NewStateRepo(db *sql.DB) *StateRepo {
	return &StateRepo{
		q: cartdb.New(db),
	}
}

func (r *StateRepo) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := r.q.GetCartState(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, app.ErrStateNotFound
		}
		return nil, fmt.Errorf("load cart state %q: %w", key, err)
	}
	return value, nil
}

func (r *StateRepo) Save(ctx context.Context, key string, value []byte) error {
	err := r.q.UpsertCartState(ctx, cartdb.UpsertCartStateParams{
		Key:   key,
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("save cart state %q: %w", key, err)
	}
	return nil
}

func (r *StateRepo) Delete(ctx context.Context, key string) error {
	if err := r.q.DeleteCartState(ctx, key); err != nil {
		return fmt.Errorf("delete cart state %q: %w", key, err)
	}
	return nil
}

func (r *StateRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := r.q.ListCartStateKeys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list cart state keys: %w", err)
	}
	return keys, nil
}
