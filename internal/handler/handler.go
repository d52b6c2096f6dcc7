// Package handler exposes the HTTP API: checkout, payment verification,
// orders, menu, loyalty discounts, and the admin back office.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/dinehall/internal/domain/discount"
	"github.com/xenking/dinehall/internal/domain/menu"
	"github.com/xenking/dinehall/internal/domain/order"
	"github.com/xenking/dinehall/internal/domain/profile"
	"github.com/xenking/dinehall/internal/idempotency"
)

// OrderService is the slice of the order service the handlers depend on.
type OrderService interface {
	Checkout(ctx context.Context, req order.CheckoutRequest) (*order.CheckoutResult, error)
	PlaceDirect(ctx context.Context, req order.CheckoutRequest) (*order.Order, error)
	VerifyPayment(ctx context.Context, sessionID string) (*order.VerifyResult, error)
}

// Handler carries the dependencies of all HTTP endpoints.
type Handler struct {
	service  OrderService
	orders   order.Repository
	menu     menu.Repository
	tiers    discount.Repository
	profiles profile.Repository
	idem     idempotency.Store
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	service OrderService,
	orders order.Repository,
	menuRepo menu.Repository,
	tiers discount.Repository,
	profiles profile.Repository,
	idem idempotency.Store,
) *Handler {
	return &Handler{
		service:  service,
		orders:   orders,
		menu:     menuRepo,
		tiers:    tiers,
		profiles: profiles,
		idem:     idem,
	}
}

// Routes builds the API router. The authenticator attaches caller identity on
// every request; individual groups opt into RequireAuth/RequireAdmin.
func (h *Handler) Routes(authn *Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(authn.Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", h.listMenu)
		r.Get("/discounts", h.listActiveDiscounts)

		r.Post("/checkout", h.checkout)
		r.Post("/verify-payment", h.verifyPayment)
		r.Post("/orders", h.placeOrder)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/profile", h.getProfile)
			r.Get("/orders", h.listMyOrders)
			r.Get("/orders/{id}", h.getOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Get("/orders", h.listAllOrders)
			r.Patch("/orders/{id}/status", h.updateOrderStatus)

			r.Post("/menu", h.createMenuItem)
			r.Put("/menu/{id}", h.updateMenuItem)
			r.Delete("/menu/{id}", h.deleteMenuItem)

			r.Get("/discounts", h.listAllDiscounts)
			r.Post("/discounts", h.createDiscount)
			r.Put("/discounts/{id}", h.updateDiscount)
			r.Delete("/discounts/{id}", h.deleteDiscount)

			r.Get("/profiles", h.listProfiles)
		})
	})

	return r
}
