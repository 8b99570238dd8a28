package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/app"
)

// ErrorMapper translates errors the cart layer does not know about, such as
// gRPC statuses from the catalog, into an HTTP status, a code and a message.
type ErrorMapper func(err error) (status int, code, message string)

func defaultMapper(err error) (int, string, string) {
	return http.StatusInternalServerError, "INTERNAL", "internal error"
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := h.classify(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func (h *Handler) classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, app.ErrInvalidDiscountCode):
		return http.StatusBadRequest, "INVALID_DISCOUNT_CODE", err.Error()
	case errors.Is(err, app.ErrValidation):
		return http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, app.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, "UNAVAILABLE", "stock backend unavailable"
	case errors.Is(err, errProductUnavailable):
		return http.StatusConflict, "PRODUCT_UNAVAILABLE", err.Error()
	}
	return h.fallback(err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
