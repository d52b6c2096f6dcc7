package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/dinehall/internal/domain/discount"
)

type discountRequest struct {
	Name        string          `json:"name"`
	MinSpending int64           `json:"min_spending"`
	Percentage  decimal.Decimal `json:"discount_percentage"`
	Active      *bool           `json:"active,omitempty"`
}

type discountResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	MinSpending int64           `json:"min_spending"`
	Percentage  decimal.Decimal `json:"discount_percentage"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toDiscountResponse(t *discount.Tier) discountResponse {
	return discountResponse{
		ID:          t.ID,
		Name:        t.Name,
		MinSpending: t.MinSpendingCents,
		Percentage:  t.Percentage,
		Active:      t.Active,
		CreatedAt:   t.CreatedAt,
	}
}

func toDiscountResponses(tiers []discount.Tier) []discountResponse {
	out := make([]discountResponse, len(tiers))
	for i := range tiers {
		out[i] = toDiscountResponse(&tiers[i])
	}
	return out
}

// listActiveDiscounts feeds the storefront's discount display. A store
// failure degrades to an empty list instead of failing the page.
func (h *Handler) listActiveDiscounts(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.tiers.ListActive(r.Context())
	if err != nil {
		zctx.From(r.Context()).Warn("Active discount lookup failed, degrading to none", zap.Error(err))
		writeSuccess(w, []discountResponse{})
		return
	}
	writeSuccess(w, toDiscountResponses(tiers))
}

func (h *Handler) listAllDiscounts(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.tiers.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, toDiscountResponses(tiers))
}

func (h *Handler) createDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tier := &discount.Tier{
		ID:               uuid.New().String(),
		Name:             req.Name,
		MinSpendingCents: req.MinSpending,
		Percentage:       req.Percentage,
		Active:           true,
	}
	if req.Active != nil {
		tier.Active = *req.Active
	}
	if err := tier.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.tiers.Create(r.Context(), tier); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, toDiscountResponse(tier))
}

func (h *Handler) updateDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tier, err := h.tiers.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	tier.Name = req.Name
	tier.MinSpendingCents = req.MinSpending
	tier.Percentage = req.Percentage
	if req.Active != nil {
		tier.Active = *req.Active
	}
	if err := tier.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.tiers.Update(r.Context(), tier); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, toDiscountResponse(tier))
}

func (h *Handler) deleteDiscount(w http.ResponseWriter, r *http.Request) {
	if err := h.tiers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, nil)
}
