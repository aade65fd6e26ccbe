package httpapi

import (
	"net/http"
	"sync/atomic"

	"jobs-portal/internal/events"
	"jobs-portal/internal/portal"
)

type HealthHandler struct {
	Portal     *portal.Service
	Hub        *events.Hub
	PollStatus *atomic.Value // stores poll.Status
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"ok": true}

	if h.Portal != nil {
		pending, err := h.Portal.PendingCount(r.Context())
		if err != nil {
			out["ok"] = false
			out["store_error"] = err.Error()
		}
		out["pending_overrides"] = pending
	}
	if h.Hub != nil {
		subs, dropped := h.Hub.Stats()
		out["sse"] = map[string]any{"subscribers": subs, "dropped": dropped}
	}
	if h.PollStatus != nil {
		if st := h.PollStatus.Load(); st != nil {
			out["sync"] = st
		}
	}
	WriteJSON(w, http.StatusOK, out)
}
