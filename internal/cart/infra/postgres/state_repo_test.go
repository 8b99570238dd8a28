package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/app"
	pgconn "github.com/dwikikusuma/videoshop-cart/pkg/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live database only when CART_TEST_POSTGRES_DSN is set.
func TestStateRepo(t *testing.T) {
	dsn := os.Getenv("CART_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CART_TEST_POSTGRES_DSN not set")
	}

	db, err := pgconn.OpenDSN(dsn)
	require.NoError(t, err)
	defer db.Close()

	migration, err := os.ReadFile("../../../../migrations/002_cart_state.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(migration))
	require.NoError(t, err)

	ctx := context.Background()
	repo := NewStateRepo(db)
	key := "cart:pgtest-" + t.Name()
	t.Cleanup(func() { _ = repo.Delete(context.Background(), key) })

	_, err = repo.Load(ctx, key)
	assert.ErrorIs(t, err, app.ErrStateNotFound)

	require.NoError(t, repo.Save(ctx, key, []byte(`{"version":1}`)))
	require.NoError(t, repo.Save(ctx, key, []byte(`{"version":1,"cart":{}}`)))

	got, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"cart":{}}`, string(got))

	keys, err := repo.Keys(ctx, "cart:pgtest-")
	require.NoError(t, err)
	assert.Contains(t, keys, key)

	require.NoError(t, repo.Delete(ctx, key))
	_, err = repo.Load(ctx, key)
	assert.ErrorIs(t, err, app.ErrStateNotFound)
}
