package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/dinehall/internal/domain/discount"
	"github.com/xenking/dinehall/internal/domain/menu"
	"github.com/xenking/dinehall/internal/domain/order"
	"github.com/xenking/dinehall/internal/domain/pricing"
	"github.com/xenking/dinehall/internal/payment"
)

// envelope is the uniform response shape of every endpoint.
type envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Code: "SUCCESS", Message: "Success", Data: data})
}

func writeFail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Code: "FAIL", Message: msg})
}

// writeError maps domain errors to HTTP responses. The taxonomy is flattened
// into a single user-facing message; the distinctions drive the status code
// and logging only.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidItem       *pricing.InvalidLineItemError
		invalidTransition *order.InvalidTransitionError
	)
	switch {
	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrNameRequired),
		errors.Is(err, order.ErrMobileRequired),
		errors.Is(err, discount.ErrInvalidTier),
		errors.Is(err, menu.ErrInvalidItem):
		writeFail(w, http.StatusBadRequest, err.Error())

	case errors.As(err, &invalidItem):
		writeFail(w, http.StatusUnprocessableEntity, invalidItem.Error())

	case errors.As(err, &invalidTransition):
		writeFail(w, http.StatusConflict, invalidTransition.Error())

	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, order.ErrSessionUnknown),
		errors.Is(err, menu.ErrNotFound),
		errors.Is(err, discount.ErrNotFound),
		errors.Is(err, payment.ErrSessionNotFound):
		writeFail(w, http.StatusNotFound, err.Error())

	default:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		writeFail(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
