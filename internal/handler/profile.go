package handler

import (
	"net/http"
	"time"

	"github.com/xenking/dinehall/internal/domain/profile"
)

type profileResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	TotalSpent int64     `json:"total_spent"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toProfileResponse(p *profile.Profile) profileResponse {
	return profileResponse{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		TotalSpent: p.TotalSpentCents,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess.CustomerID == "" {
		writeFail(w, http.StatusNotFound, profile.ErrNotFound.Error())
		return
	}

	p, err := h.profiles.GetByID(r.Context(), sess.CustomerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, toProfileResponse(p))
}

func (h *Handler) listProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]profileResponse, len(profiles))
	for i := range profiles {
		out[i] = toProfileResponse(&profiles[i])
	}
	writeSuccess(w, out)
}
