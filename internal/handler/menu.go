package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/xenking/dinehall/internal/domain/menu"
)

type menuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"image_url,omitempty"`
	Available   *bool  `json:"available,omitempty"`
}

type menuItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Price       int64     `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toMenuItemResponse(i *menu.Item) menuItemResponse {
	return menuItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Category:    i.Category,
		Price:       i.PriceCents,
		ImageURL:    i.ImageURL,
		Available:   i.Available,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	var (
		items []menu.Item
		err   error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		items, err = h.menu.ListByCategory(r.Context(), category)
	} else {
		items, err = h.menu.List(r.Context())
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]menuItemResponse, len(items))
	for i := range items {
		out[i] = toMenuItemResponse(&items[i])
	}
	writeSuccess(w, out)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item := &menu.Item{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.Price,
		ImageURL:    req.ImageURL,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if err := item.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.menu.Create(r.Context(), item); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, toMenuItemResponse(item))
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.menu.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Category = req.Category
	item.PriceCents = req.Price
	item.ImageURL = req.ImageURL
	if req.Available != nil {
		item.Available = *req.Available
	}
	if err := item.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.menu.Update(r.Context(), item); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, toMenuItemResponse(item))
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, nil)
}
