package uploads

import "github.com/go-chi/chi/v5"

// Routes returns the upload subrouter, mounted under /api/uploads.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Upload)
	r.Delete("/", h.Delete)
	r.Get("/resolve", h.Resolve)
	return r
}
