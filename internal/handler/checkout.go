package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/dinehall/internal/domain/order"
	"github.com/xenking/dinehall/internal/domain/pricing"
	"github.com/xenking/dinehall/internal/idempotency"
)

// checkoutItemRequest mirrors the client cart line. Price is in minor
// currency units and becomes the immutable snapshot on the order.
type checkoutItemRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"image_url,omitempty"`
}

type checkoutRequest struct {
	Items              []checkoutItemRequest `json:"items"`
	CustomerName       string                `json:"customerName"`
	CustomerMobile     string                `json:"customerMobile"`
	TableNumber        string                `json:"tableNumber,omitempty"`
	Currency           string                `json:"currency,omitempty"`
	PaymentMethodTypes []string              `json:"payment_method_types,omitempty"`
}

type checkoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
	OrderID   string `json:"orderId"`
}

func (req *checkoutRequest) toDomain(customerID string) order.CheckoutRequest {
	items := make([]pricing.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = pricing.LineItem{
			ItemID:         item.ID,
			Name:           item.Name,
			UnitPriceCents: item.Price,
			Quantity:       item.Quantity,
			ImageURL:       item.ImageURL,
		}
	}
	return order.CheckoutRequest{
		CustomerID:     customerID,
		CustomerName:   req.CustomerName,
		CustomerMobile: req.CustomerMobile,
		TableNumber:    req.TableNumber,
		Currency:       req.Currency,
		Items:          items,
		PaymentMethods: req.PaymentMethodTypes,
	}
}

// checkout creates a pending order and a provider payment session, returning
// the redirect URL. A client-supplied Idempotency-Key header makes retries
// replay the first response instead of creating duplicates: the token is
// reserved before the checkout runs, so of concurrent requests sharing a key
// only one reaches the service and the rest get 409 until its response is
// stored.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token := r.Header.Get("Idempotency-Key")
	if token != "" {
		stored, err := h.idem.Acquire(r.Context(), token)
		switch {
		case errors.Is(err, idempotency.ErrInProgress):
			writeFail(w, http.StatusConflict, "a request with this idempotency key is in progress")
			return
		case err != nil:
			zctx.From(r.Context()).Warn("Idempotency reservation failed", zap.Error(err))
			token = ""
		case stored != nil:
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Idempotency-Replayed", "true")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(stored)
			return
		}
	}

	customerID := ""
	if sess := SessionFromContext(r.Context()); sess != nil {
		customerID = sess.CustomerID
	}

	result, err := h.service.Checkout(r.Context(), req.toDomain(customerID))
	if err != nil {
		if token != "" {
			if relErr := h.idem.Release(r.Context(), token); relErr != nil {
				zctx.From(r.Context()).Warn("Idempotency release failed", zap.Error(relErr))
			}
		}
		h.writeError(w, r, err)
		return
	}

	resp := envelope{
		Code:    "SUCCESS",
		Message: "Success",
		Data: checkoutResponse{
			URL:       result.RedirectURL,
			SessionID: result.SessionID,
			OrderID:   result.Order.ID,
		},
	}

	if token != "" {
		if body, err := json.Marshal(resp); err == nil {
			if err := h.idem.Save(r.Context(), token, body); err != nil {
				zctx.From(r.Context()).Warn("Idempotency save failed", zap.Error(err))
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type verifyRequest struct {
	SessionID string `json:"sessionId"`
}

type verifyResponse struct {
	Verified bool `json:"verified"`
}

// verifyPayment reconciles the provider's authoritative session status into
// order state. The session id comes from the provider's redirect, but the
// status itself is always re-queried, never trusted from the client.
func (h *Handler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeFail(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	result, err := h.service.VerifyPayment(r.Context(), req.SessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, verifyResponse{Verified: result.Verified})
}
