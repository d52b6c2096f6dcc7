package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/dinehall/internal/domain/auth"
	"github.com/xenking/dinehall/internal/domain/order"
)

type orderResponse struct {
	ID             string           `json:"id"`
	CustomerID     string           `json:"user_id,omitempty"`
	CustomerName   string           `json:"customer_name"`
	CustomerMobile string           `json:"customer_mobile"`
	TableNumber    string           `json:"table_number,omitempty"`
	Items          []order.LineItem `json:"items"`
	Subtotal       int64            `json:"subtotal"`
	DiscountAmount int64            `json:"discount_amount"`
	TotalAmount    int64            `json:"total_amount"`
	Currency       string           `json:"currency"`
	Status         order.Status     `json:"status"`
	StatusLabel    string           `json:"status_label,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:             o.ID,
		CustomerID:     o.CustomerID,
		CustomerName:   o.CustomerName,
		CustomerMobile: o.CustomerMobile,
		TableNumber:    o.TableNumber,
		Items:          o.Items,
		Subtotal:       o.SubtotalCents,
		DiscountAmount: o.DiscountCents,
		TotalAmount:    o.TotalCents,
		Currency:       o.Currency,
		Status:         o.Status,
		StatusLabel:    order.StatusTable[o.Status].Label,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		CompletedAt:    o.CompletedAt,
	}
}

func toOrderResponses(orders []order.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	return out
}

// placeOrder is the direct-placement flow: the order starts at received with
// no payment gate.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	customerID := ""
	if sess := SessionFromContext(r.Context()); sess != nil {
		customerID = sess.CustomerID
	}

	o, err := h.service.PlaceDirect(r.Context(), req.toDomain(customerID))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, toOrderResponse(o))
}

func (h *Handler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess.CustomerID == "" {
		writeSuccess(w, []orderResponse{})
		return
	}

	orders, err := h.orders.ListForCustomer(r.Context(), sess.CustomerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, toOrderResponses(orders))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// Owners and admins only; everything else looks like a missing order.
	sess := SessionFromContext(r.Context())
	if !sess.HasScope(auth.ScopeAdmin) && (o.CustomerID == "" || o.CustomerID != sess.CustomerID) {
		writeFail(w, http.StatusNotFound, order.ErrNotFound.Error())
		return
	}
	writeSuccess(w, toOrderResponse(o))
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, toOrderResponses(orders))
}

type statusUpdateRequest struct {
	Status order.Status `json:"status"`
}

// updateOrderStatus is the manual back-office transition. The forward-only
// invariant is enforced by the repository's conditional write.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		writeFail(w, http.StatusBadRequest, "unknown order status")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, toOrderResponse(o))
}
