package checkrole

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the role check endpoint,
// mounted under /api/auth/check-role.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	return r
}
