package apitoken

import "github.com/go-chi/chi/v5"

// Routes returns the token issuance subrouter, mounted under
// /api/auth/token behind RequireSignedIn.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Issue)
	return r
}
