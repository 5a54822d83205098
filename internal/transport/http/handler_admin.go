package httptransport

import (
	"net/http"

	"gomoku-arena/internal/store"
)

type AdminHandlers struct {
	store *store.Store
}

func NewAdminHandlers(st *store.Store) *AdminHandlers {
	return &AdminHandlers{store: st}
}

// Health reports liveness and, when an archive is configured, whether the
// database answers.
func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "disabled"})
			return
		}
		if err := h.store.Ping(r.Context()); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "db": "down"})
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "up"})
	}
}
