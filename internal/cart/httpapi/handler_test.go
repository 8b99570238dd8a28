package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/app"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/domain"
	"github.com/dwikikusuma/videoshop-cart/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducts map[string]app.Product

func (f fakeProducts) GetProduct(ctx context.Context, id string) (app.Product, error) {
	p, ok := f[id]
	if !ok {
		return app.Product{}, app.ErrNotFound
	}
	return p, nil
}

func (f fakeProducts) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]app.Product, string, error) {
	return []app.Product{f["p1"], f["p2"]}, "next-page", nil
}

type fakeStock struct {
	statuses []app.StockStatus
	err      error
}

func (f *fakeStock) CheckStock(ctx context.Context, ids []string) ([]app.StockStatus, error) {
	return f.statuses, f.err
}

type rulesFunc func(code string) (domain.Discount, error)

func (f rulesFunc) Lookup(ctx context.Context, code string) (domain.Discount, error) { return f(code) }

type harness struct {
	t      *testing.T
	srv    *httptest.Server
	stock  *fakeStock
	ss     *app.Sessions
	reg    *prometheus.Registry
	mapped error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, stock: &fakeStock{}, reg: prometheus.NewRegistry()}

	h.ss = app.NewSessions(app.SessionsConfig{
		Store: app.StoreConfig{
			Currency:           "KRW",
			Shipping:           domain.ShippingPolicy{Fee: 3000, FreeFrom: 50000},
			DefaultMaxQuantity: 10,
			PriceChangePolicy:  app.PriceFlagOnly,
		},
		SyncInterval: time.Hour,
	}, app.Deps{
		Stock: h.stock,
		Rules: rulesFunc(func(code string) (domain.Discount, error) {
			if code == "WELCOME10" {
				return domain.Discount{Kind: domain.DiscountPercent, Value: 10}, nil
			}
			return domain.Discount{}, app.ErrInvalidDiscountCode
		}),
		Logger: logger.Discard(),
	})
	t.Cleanup(h.ss.Close)

	products := fakeProducts{
		"p1": {ID: "p1", Name: domain.LocalizedName{EN: "Desk Lamp", KO: "책상 램프"}, Currency: "KRW", Price: 12000, SellerID: "s1", SellerName: "Seoul Lights", MaxPerOrder: 3, Available: true},
		"p2": {ID: "p2", Name: domain.LocalizedName{EN: "Mug"}, Currency: "KRW", Price: 8000, SellerID: "s2", SellerName: "Cups", MaxPerOrder: 5},
		"usd": {ID: "usd", Currency: "USD", Price: 10, SellerID: "s3", MaxPerOrder: 5, Available: true},
	}

	handler := NewHandler(h.ss, products,
		WithLogger(logger.Discard()),
		WithErrorMapper(func(err error) (int, string, string) {
			h.mapped = err
			return http.StatusTeapot, "MAPPED", "mapped"
		}),
	)

	r := chi.NewRouter()
	r.Use(NewHTTPMetrics(h.reg).Middleware)
	r.Mount("/v1", handler.Routes())
	h.srv = httptest.NewServer(r)
	t.Cleanup(h.srv.Close)
	return h
}

func (h *harness) do(method, path string, body any) (int, map[string]any) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, h.srv.URL+path, &buf)
	require.NoError(h.t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(h.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func errCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func items(body map[string]any) []map[string]any {
	raw, _ := body["items"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.(map[string]any))
	}
	return out
}

func TestCartFlow(t *testing.T) {
	h := newHarness(t)
	const base = "/v1/sessions/alice/cart"

	status, body := h.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, items(body))
	assert.Equal(t, "KRW", body["currency"])

	status, body = h.do(http.MethodPost, base+"/items", map[string]any{"product_id": "p1", "quantity": 2})
	require.Equal(t, http.StatusOK, status)
	lines := items(body)
	require.Len(t, lines, 1)
	assert.Equal(t, "Desk Lamp", lines[0]["name"])
	assert.EqualValues(t, 24000, body["subtotal_amount"])
	assert.EqualValues(t, 3000, body["shipping_amount"])
	assert.EqualValues(t, 27000, body["total_amount"])
	itemID := lines[0]["id"].(string)

	status, body = h.do(http.MethodPatch, base+"/items/"+itemID, map[string]any{"quantity": 3})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 36000, body["subtotal_amount"])

	status, body = h.do(http.MethodPatch, base+"/items/"+itemID, map[string]any{"quantity": 4})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ARGUMENT", errCode(body))

	status, body = h.do(http.MethodPatch, base+"/items/missing", map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errCode(body))

	status, body = h.do(http.MethodPut, base+"/discount", map[string]any{"code": "welcome10"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "WELCOME10", body["discount_code"])
	assert.EqualValues(t, 3600, body["discount_amount"])

	status, body = h.do(http.MethodPut, base+"/discount", map[string]any{"code": "BOGUS"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_DISCOUNT_CODE", errCode(body))

	status, body = h.do(http.MethodDelete, base+"/discount", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["discount_code"])

	status, _ = h.do(http.MethodDelete, base+"/items/missing", nil)
	assert.Equal(t, http.StatusOK, status, "removing a missing item is a no-op")

	status, body = h.do(http.MethodDelete, base+"/items/"+itemID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, items(body))

	_, _ = h.do(http.MethodPost, base+"/items", map[string]any{"product_id": "p1"})
	status, body = h.do(http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, items(body))
	assert.EqualValues(t, 0, body["total_amount"])
}

func TestAddItemErrors(t *testing.T) {
	h := newHarness(t)
	const base = "/v1/sessions/alice/cart/items"

	cases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"missing product id", map[string]any{"quantity": 1}, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"unknown field", map[string]any{"product_id": "p1", "qty": 1}, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"negative quantity", map[string]any{"product_id": "p1", "quantity": -1}, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"unknown product", map[string]any{"product_id": "nope"}, http.StatusNotFound, "NOT_FOUND"},
		{"out of stock product", map[string]any{"product_id": "p2"}, http.StatusConflict, "PRODUCT_UNAVAILABLE"},
		{"foreign currency", map[string]any{"product_id": "usd"}, http.StatusBadRequest, "INVALID_ARGUMENT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := h.do(http.MethodPost, base, tc.body)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, errCode(body))
		})
	}

	status, body := h.do(http.MethodGet, "/v1/sessions/bad%20id/cart", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ARGUMENT", errCode(body))
}

func TestSyncEndpoint(t *testing.T) {
	h := newHarness(t)
	const base = "/v1/sessions/bob/cart"

	_, _ = h.do(http.MethodPost, base+"/items", map[string]any{"product_id": "p1", "quantity": 1})

	price := int64(15000)
	h.stock.statuses = []app.StockStatus{{ProductID: "p1", Available: false, Price: &price}}

	status, body := h.do(http.MethodPost, base+"/sync", nil)
	require.Equal(t, http.StatusOK, status)
	cart := body["cart"].(map[string]any)
	sync := body["sync"].(map[string]any)
	assert.EqualValues(t, 1, sync["marked_out_of_stock"])
	assert.EqualValues(t, 1, sync["price_flagged"])
	assert.Equal(t, true, cart["has_out_of_stock"])
	assert.EqualValues(t, 1, cart["out_of_stock_count"])
	assert.EqualValues(t, 1, cart["pending_price_changes"])
	assert.EqualValues(t, 12000, cart["subtotal_amount"])

	status, body = h.do(http.MethodPost, base+"/prices/accept", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 15000, body["subtotal_amount"])
	assert.EqualValues(t, 0, body["pending_price_changes"])

	h.stock.err = errors.New("connection refused")
	status, body = h.do(http.MethodPost, base+"/sync", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "UNAVAILABLE", errCode(body))
}

func TestViewEndpoints(t *testing.T) {
	h := newHarness(t)
	const base = "/v1/sessions/carol/cart"

	status, body := h.do(http.MethodPut, base+"/view", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["changed"])

	status, body = h.do(http.MethodPut, base+"/view", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["changed"])

	_, body = h.do(http.MethodGet, base, nil)
	assert.Equal(t, true, body["view_active"])

	status, body = h.do(http.MethodDelete, base+"/view", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["changed"])
	assert.False(t, h.ss.ViewActive("carol"))
}

func TestProductEndpoints(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(http.MethodGet, "/v1/products/p1?locale=ko", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "책상 램프", body["name"])

	status, body = h.do(http.MethodGet, "/v1/products?limit=2", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["products"], 2)
	assert.Equal(t, "next-page", body["next_cursor"])

	status, body = h.do(http.MethodGet, "/v1/products?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ARGUMENT", errCode(body))

	status, _ = h.do(http.MethodGet, "/v1/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUnknownErrorsUseMapper(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("catalog exploded")
	handler := NewHandler(h.ss, failingProducts{err: boom}, WithLogger(logger.Discard()),
		WithErrorMapper(func(err error) (int, string, string) {
			h.mapped = err
			return http.StatusBadGateway, "UPSTREAM", "upstream failed"
		}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/p1", nil)
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.ErrorIs(t, h.mapped, boom)
	assert.JSONEq(t, `{"error":{"code":"UPSTREAM","message":"upstream failed"}}`, rec.Body.String())
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	h := newHarness(t)
	_, _ = h.do(http.MethodGet, "/v1/sessions/a/cart", nil)
	_, _ = h.do(http.MethodGet, "/v1/sessions/b/cart", nil)

	n, err := testutil.GatherAndCount(h.reg, "gateway_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "both sessions share one route series")
}

type failingProducts struct{ err error }

func (f failingProducts) GetProduct(ctx context.Context, id string) (app.Product, error) {
	return app.Product{}, f.err
}

func (f failingProducts) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]app.Product, string, error) {
	return nil, "", f.err
}
