package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/vdsearch/vdsearch/internal/httpserver/deps"
	"github.com/vdsearch/vdsearch/internal/httpserver/handlers"
)

func init() { Register(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	r.Get("/api/search", handlers.Search(d))
	r.Get("/api/suggest", handlers.Suggest(d))
}
