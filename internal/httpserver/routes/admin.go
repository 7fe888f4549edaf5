package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/vdsearch/vdsearch/internal/httpserver/deps"
	"github.com/vdsearch/vdsearch/internal/httpserver/handlers"
	"github.com/vdsearch/vdsearch/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

func registerAdmin(r chi.Router, d deps.Deps) {
	r.Route("/api/admin", func(api chi.Router) {
		api.Use(mw.RequireAdmin(d.Sessions, d.Logger))
		api.Get("/promotions", handlers.ListPromotions(d))
		api.Put("/promotions", handlers.SavePromotions(d))
		api.Get("/history", handlers.History(d))
		api.Post("/reload", handlers.Reload(d))
	})
}
