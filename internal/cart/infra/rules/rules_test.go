package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/app"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
discounts:
  - code: welcome10
    kind: percent
    value: 10
  - code: SAVE3000
    kind: fixed
    value: 3000
    expires_at: 2030-01-01T00:00:00Z
`

func TestParseAndLookup(t *testing.T) {
	ctx := context.Background()
	s, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	d, err := s.Lookup(ctx, "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, domain.Discount{Code: "WELCOME10", Kind: domain.DiscountPercent, Value: 10}, d)

	s.now = func() time.Time { return time.Date(2029, 12, 31, 0, 0, 0, 0, time.UTC) }
	d, err = s.Lookup(ctx, "save3000")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), d.Value)

	s.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }
	_, err = s.Lookup(ctx, "SAVE3000")
	assert.ErrorIs(t, err, app.ErrInvalidDiscountCode)

	_, err = s.Lookup(ctx, "NOPE")
	assert.ErrorIs(t, err, app.ErrInvalidDiscountCode)
	assert.ErrorIs(t, err, app.ErrValidation)
}

func TestParseRejectsBadRules(t *testing.T) {
	cases := map[string]string{
		"missing code":   "discounts:\n  - kind: fixed\n    value: 1\n",
		"unknown kind":   "discounts:\n  - code: A\n    kind: bogo\n    value: 1\n",
		"percent > 100":  "discounts:\n  - code: A\n    kind: percent\n    value: 101\n",
		"negative fixed": "discounts:\n  - code: A\n    kind: fixed\n    value: -5\n",
		"duplicate":      "discounts:\n  - code: a\n    kind: fixed\n    value: 1\n  - code: A\n    kind: fixed\n    value: 2\n",
		"not yaml":       "discounts: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file is empty", func(t *testing.T) {
		s, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Zero(t, s.Len())
	})

	t.Run("empty path is empty", func(t *testing.T) {
		s, err := Load("")
		require.NoError(t, err)
		assert.Zero(t, s.Len())
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "discounts.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2, s.Len())
	})
}

func TestSetBacksStoreDiscounts(t *testing.T) {
	ctx := context.Background()
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	store := app.NewStore(app.StoreConfig{Key: "cart:x", Currency: "KRW"}, app.Deps{Rules: s})
	_, err = store.AddItem(ctx, domain.CartItem{ProductID: "p", UnitPrice: 10000, Quantity: 1})
	require.NoError(t, err)

	c, err := store.ApplyDiscountCode(ctx, "welcome10")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.DiscountAmount)
	assert.Equal(t, int64(9000), c.TotalAmount)
}
