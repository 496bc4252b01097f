package http

import (
	"github.com/go-chi/chi/v5"

	"larder/frontend/exports"
	"larder/frontend/inventory"
	"larder/frontend/sheets"
)

// RegisterInventoryRoutes registers the page-session scoped inventory routes.
func (s *Server) RegisterInventoryRoutes(r chi.Router) chi.Router {
	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", inventory.InventoryPageQueryHandler(s.Backend, s.Views, s.Audit, s.ActivityLimit))
		r.Get("/view", inventory.InventoryViewQueryHandler(s.Backend, s.Views, s.Audit, s.ActivityLimit))
		r.Get("/items/{id}", inventory.ItemQueryHandler(s.Views))

		r.Post("/items", inventory.AddItemCommandHandler(s.Backend, s.Views, s.Audit))
		r.Post("/items/{id}/delete", inventory.DeleteItemCommandHandler(s.Backend, s.Views, s.Audit))
		r.Post("/remove", inventory.RemoveQuantityCommandHandler(s.Backend, s.Views, s.Audit))
		r.Post("/import", inventory.ImportCommandHandler(s.Backend, s.Views, s.Audit))
		r.Post("/update", inventory.InventoryUpdateCommandHandler(s.Backend, s.Views, s.Audit))

		r.Get("/export.csv", exports.InventoryCSVHandler(s.Views, s.Audit))
		r.Get("/sheet.pdf", sheets.InventorySheetHandler(s.Views, s.Audit))
	})
	return r
}
