package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/app"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/domain"
	"github.com/dwikikusuma/videoshop-cart/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *StateStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "cart.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStateStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	_, err := s.Load(ctx, "cart:a")
	assert.ErrorIs(t, err, app.ErrStateNotFound)

	require.NoError(t, s.Save(ctx, "cart:a", []byte("one")))
	require.NoError(t, s.Save(ctx, "cart:a", []byte("two")))
	require.NoError(t, s.Save(ctx, "cart:b", []byte("three")))
	require.NoError(t, s.Save(ctx, "other:c", []byte("four")))

	got, err := s.Load(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	keys, err := s.Keys(ctx, "cart:")
	require.NoError(t, err)
	assert.Equal(t, []string{"cart:a", "cart:b"}, keys)

	require.NoError(t, s.Delete(ctx, "cart:a"))
	require.NoError(t, s.Delete(ctx, "cart:missing"))
	_, err = s.Load(ctx, "cart:a")
	assert.ErrorIs(t, err, app.ErrStateNotFound)
}

func TestStateStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cart.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "cart:a", []byte("kept")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}

func TestStateStore_BacksAStore(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	cfg := app.StoreConfig{Key: "cart:alice", Currency: "KRW", Shipping: domain.ShippingPolicy{Fee: 3000}}

	store := app.NewStore(cfg, app.Deps{Storage: s, Logger: logger.Discard()})
	_, err := store.AddItem(ctx, domain.CartItem{ProductID: "p1", UnitPrice: 12000, Quantity: 2, SellerID: "s1"})
	require.NoError(t, err)

	restored := app.NewStore(cfg, app.Deps{Storage: s, Logger: logger.Discard()}).Load(ctx)
	require.Len(t, restored.Items, 1)
	assert.Equal(t, int64(27000), restored.TotalAmount)
}
