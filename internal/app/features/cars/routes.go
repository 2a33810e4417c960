// internal/app/features/cars/routes.go
package cars

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes serves the car list at "/" and mounts repairs under
// "/{carID}/repairs". The caller mounts it at "/cars", both for the signed-in
// user and under an administrator's "/admin/{userID}" prefix.
func Routes(h *Handler, repairs http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	if repairs != nil {
		r.Mount("/{carID}/repairs", repairs)
	}
	return r
}
