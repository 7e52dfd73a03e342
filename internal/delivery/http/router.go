package http //nolint:revive // directory-based package name, imported with alias

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 30 * time.Second

func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", h.HandleCreatePayment)
		r.Get("/", h.HandleListPayments)
		r.Get("/{id}", h.HandleGetPayment)
		r.Get("/{id}/receipt.png", h.HandleReceipt)
	})

	return r
}
