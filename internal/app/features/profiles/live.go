package profiles

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/facultyhub/internal/app/system/errs"
	"github.com/dalemusser/facultyhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// reconnectDelay spaces change-stream reopen attempts after a transient
// stream failure.
const reconnectDelay = 2 * time.Second

// Live handles GET /api/profiles/{email}/live as a server-sent event
// stream. Owner or admin.
//
// The first event is always the current snapshot, so subscribers render
// immediately instead of waiting for the first change. A deleted or
// missing profile ends the stream with an error event. Transient stream
// failures emit an error event and reopen the change stream; the client
// keeps its last good profile meanwhile.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	email := pathEmail(r)
	if _, ok := canAccess(r, email); !ok {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()

	// Snapshot first: resolves the subscriber's loading state.
	snapCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), h.Log, "live snapshot")
	p, err := h.Profiles.Get(snapCtx, email)
	cancel()
	if err == errs.ErrProfileNotFound {
		sendEvent(w, flusher, "error", map[string]string{"error": "Profile not found"})
		return
	}
	if err != nil {
		h.Log.Error("live snapshot failed", zap.String("email", email), zap.Error(err))
		sendEvent(w, flusher, "error", map[string]string{"error": "Failed to load profile"})
		return
	}
	sendEvent(w, flusher, "profile", p)

	for ctx.Err() == nil {
		events, err := h.Profiles.Watch(ctx, email)
		if err != nil {
			h.Log.Warn("live watch unavailable",
				zap.String("email", email), zap.Error(err))
			sendEvent(w, flusher, "error", map[string]string{"error": "Live updates unavailable"})
			return
		}

		for ev := range events {
			switch {
			case ev.Err == errs.ErrProfileNotFound:
				sendEvent(w, flusher, "error", map[string]string{"error": "Profile not found"})
				return
			case ev.Err != nil:
				h.Log.Warn("live stream error",
					zap.String("email", email), zap.Error(ev.Err))
				sendEvent(w, flusher, "error", map[string]string{"error": "Stream interrupted"})
			case ev.Profile != nil:
				sendEvent(w, flusher, "profile", ev.Profile)
			}
		}

		// Channel closed. Client gone or stream dropped; reopen after a
		// pause unless the request is over.
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func sendEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
