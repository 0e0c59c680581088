package profiles

import "github.com/go-chi/chi/v5"

// Routes returns the profile API subrouter, mounted under /api/profiles.
// Every route assumes LoadSessionUser and RequireSignedIn already ran;
// finer owner/admin checks live in the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Route("/{email}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/sections/{section}", h.UpdateSection)
		r.Get("/sync-status", h.SyncStatus)
		r.Get("/avatar", h.Avatar)
		r.Put("/classification", h.UpdateClassification)
		r.Get("/live", h.Live)
	})
	return r
}
