// Package httpapi exposes shopper carts over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/app"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

var errProductUnavailable = errors.New("product unavailable")

type Handler struct {
	sessions *app.Sessions
	products app.ProductReader
	log      *slog.Logger
	fallback ErrorMapper
}

type Option func(*Handler)

func WithErrorMapper(m ErrorMapper) Option {
	return func(h *Handler) {
		if m != nil {
			h.fallback = m
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

func NewHandler(sessions *app.Sessions, products app.ProductReader, opts ...Option) *Handler {
	h := &Handler{
		sessions: sessions,
		products: products,
		log:      slog.Default(),
		fallback: defaultMapper,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the /v1 API. Mount it under /v1.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/sessions/{sid}/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)

		r.Post("/items", h.addItem)
		r.Patch("/items/{itemID}", h.updateItem)
		r.Delete("/items/{itemID}", h.removeItem)

		r.Put("/discount", h.applyDiscount)
		r.Delete("/discount", h.removeDiscount)

		r.Post("/sync", h.syncCart)
		r.Post("/prices/accept", h.acceptPrices)

		r.Put("/view", h.activateView)
		r.Delete("/view", h.deactivateView)
	})

	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)

	return r
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) (*app.Store, string, bool) {
	sid := chi.URLParam(r, "sid")
	st, err := h.sessions.Cart(r.Context(), sid)
	if err != nil {
		h.writeError(w, r, err)
		return nil, "", false
	}
	return st, sid, true
}

func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request, sid string, st *app.Store) {
	writeJSON(w, http.StatusOK, toCartView(st.Snapshot(), locale(r), h.sessions.ViewActive(sid)))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	st, sid, ok := h.store(w, r)
	if !ok {
		return
	}
	h.respondCart(w, r, sid, st)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	st, sid, ok := h.store(w, r)
	if !ok {
		return
	}
	st.Clear(r.Context())
	h.respondCart(w, r, sid, st)
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	st, sid, ok := h.store(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		h.writeError(w, r, fmt.Errorf("%w: product_id is required", app.ErrValidation))
		return
	}

	p, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if p.Discontinued || !p.Available {
		h.writeError(w, r, fmt.Errorf("%w: %s", errProductUnavailable, p.ID))
		return
	}
	if cur := st.Snapshot().Currency; p.Currency != "" && cur != "" && p.Currency != cur {
		h.writeError(w, r, fmt.Errorf("%w: product priced in %s, cart uses %s", app.ErrValidation, p.Currency, cur))
		return
	}

	if _, err := st.AddItem(r.Context(), p.Line(req.Quantity)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondCart(w, r, sid, st)
}

type updateItemRequest struct {
	Quantity int32 `json:"quantity"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	st, sid, ok := h.store(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := st.UpdateQuantity(r.Context(), chi.URLParam(r, "itemID"), req.Quantity); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondCart(w, r, sid, st)
}

// removeItem treats a missing item as already removed.
func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	st, sid, ok := h.store(w, r)
	if !ok {
		return
	}
	if _, err := st.RemoveItem(r.Context(), chi.URLParam(r, "itemID")); err != nil && !errors.Is(err, app.ErrNotFound) {
		h.writeError(w, r, err)
		return
	}
	h.respondCart(w, r, sid, st)
}

type discountRequest struct {
	Code string `json:"code"`
}

func (h *Handler) applyDiscount(w http.ResponseWriter, r *http.Request) {
	st, sid, ok := h.store(w, r)
	if !ok {
		return
	}

	var req discountRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := st.ApplyDiscountCode(r.Context(), req.Code); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondCart(w, r, sid, st)
}

func (h *Handler) removeDiscount(w http.ResponseWriter, r *http.Request) {
	st, sid, ok := h.store(w, r)
	if !ok {
		return
	}
	st.RemoveDiscountCode(r.Context())
	h.respondCart(w, r, sid, st)
}

type syncResponse struct {
	Cart cartView `json:"cart"`
	Sync syncView `json:"sync"`
}

func (h *Handler) syncCart(w http.ResponseWriter, r *http.Request) {
	st, sid, ok := h.store(w, r)
	if !ok {
		return
	}

	report := st.SyncWithBackend(r.Context())
	if report.Err != nil {
		h.writeError(w, r, report.Err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{
		Cart: toCartView(st.Snapshot(), locale(r), h.sessions.ViewActive(sid)),
		Sync: toSyncView(report),
	})
}

func (h *Handler) acceptPrices(w http.ResponseWriter, r *http.Request) {
	st, sid, ok := h.store(w, r)
	if !ok {
		return
	}
	st.AcceptPriceChanges(r.Context())
	h.respondCart(w, r, sid, st)
}

type viewResponse struct {
	Active  bool `json:"active"`
	Changed bool `json:"changed"`
}

func (h *Handler) activateView(w http.ResponseWriter, r *http.Request) {
	started, err := h.sessions.ActivateView(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{Active: true, Changed: started})
}

func (h *Handler) deactivateView(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if err := app.ValidateSessionID(sid); err != nil {
		h.writeError(w, r, err)
		return
	}
	stopped := h.sessions.DeactivateView(sid)
	writeJSON(w, http.StatusOK, viewResponse{Active: false, Changed: stopped})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductView(p, locale(r)))
}

type productsResponse struct {
	Products   []productView `json:"products"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, r, fmt.Errorf("%w: limit must be a non-negative integer", app.ErrValidation))
			return
		}
		limit = n
	}

	products, next, err := h.products.ListProducts(r.Context(), q.Get("q"), limit, q.Get("cursor"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := productsResponse{Products: make([]productView, 0, len(products)), NextCursor: next}
	loc := locale(r)
	for _, p := range products {
		resp.Products = append(resp.Products, toProductView(p, loc))
	}
	writeJSON(w, http.StatusOK, resp)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", app.ErrValidation, err)
	}
	return nil
}

// locale picks ?locale=, then Accept-Language. Only en and ko are served.
func locale(r *http.Request) string {
	if l := r.URL.Query().Get("locale"); l != "" {
		return l
	}
	if al := r.Header.Get("Accept-Language"); strings.HasPrefix(strings.ToLower(al), "ko") {
		return "ko"
	}
	return "en"
}
