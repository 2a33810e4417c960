// internal/app/features/dashboard/routes.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/repairhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the admin dashboard. Mounted at "/admin"; every route requires
// an administrator. browse, when set, serves a user's pages under
// "/admin/{userID}".
func Routes(h *Handler, sm *auth.SessionManager, browse http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(auth.RoleAdmin))
		pr.Get("/", h.ServeAdmin)
		pr.Get("/range", h.ServeRange)
		pr.Get("/export.xlsx", h.ServeExport)
		if browse != nil {
			pr.Mount("/{userID:[0-9a-fA-F]{24}}", browse)
		}
	})

	return r
}
