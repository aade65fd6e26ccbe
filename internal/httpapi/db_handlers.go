package httpapi

import (
	"net/http"

	"jobs-portal/internal/store"
)

type DBHandler struct {
	Store *store.DB
}

// Checkpoint folds the WAL into the main database file.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "no_store", "overlay store is disabled")
		return
	}
	if err := h.Store.Checkpoint(r.Context()); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "checkpoint_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
