package authms

import "github.com/go-chi/chi/v5"

// Routes returns the Microsoft OAuth subrouter, mounted under
// /auth/microsoft.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	r.Get("/callback", h.ServeCallback)
	return r
}
