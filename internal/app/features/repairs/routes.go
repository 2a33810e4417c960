// internal/app/features/repairs/routes.go
package repairs

import "github.com/go-chi/chi/v5"

// Routes serves a car's repairs. Mounted at "/cars/{carID}/repairs".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeCatalog)
	r.Get("/export.xlsx", h.ServeCatalogExport)
	r.Get("/{repairID}", h.ServeDetails)
	r.Get("/{repairID}/export.xlsx", h.ServeRepairExport)
	return r
}
