// Package www exposes the engine's boundary operations as a JSON API.
package www

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"yardcore/engine"
)

type Handlers struct {
	engine *engine.Engine
}

func NewRouter(eng *engine.Engine) http.Handler {
	h := &Handlers{engine: eng}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.apiHealth)

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", h.apiListAssets)
			r.Post("/", h.apiCreateAsset)
			r.Get("/{id}", h.apiGetAsset)
			r.Patch("/{id}", h.apiUpdateAsset)
			r.Post("/{id}/references", h.apiSetReference)
			r.Post("/{id}/transition", h.apiTransition)
			r.Get("/{id}/rollup", h.apiAssetRollup)
		})

		r.Post("/readings", h.apiRecordReading)
		r.Get("/rollup", h.apiFleetRollup)

		r.Route("/work-orders", func(r chi.Router) {
			r.Get("/", h.apiListWorkOrders)
			r.Post("/", h.apiOpenWorkOrder)
			r.Get("/{id}", h.apiGetWorkOrder)
			r.Post("/{id}/transition", h.apiTransitionWorkOrder)
		})

		r.Get("/audit", h.apiAudit)
	})

	return r
}
