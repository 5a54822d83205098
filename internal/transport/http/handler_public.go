package httptransport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"gomoku-arena/internal/room"
	"gomoku-arena/internal/store"
)

type LobbyHandlers struct {
	rooms *room.Directory
	store *store.Store
}

func NewLobbyHandlers(dir *room.Directory, st *store.Store) *LobbyHandlers {
	return &LobbyHandlers{rooms: dir, store: st}
}

func (h *LobbyHandlers) Rooms() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		metricRoomsListTotal.Add(1)
		WriteJSON(w, http.StatusOK, map[string]any{"rooms": h.rooms.List()})
	}
}

// RoomState serves the same snapshot a spectator receives on joining.
func (h *LobbyHandlers) RoomState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricRoomStateTotal.Add(1)
		rm, ok := h.rooms.Find(chi.URLParam(r, "room_id"))
		if !ok {
			WriteHTTPError(w, http.StatusNotFound, "room_not_found")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"room":       rm.Info(),
			"game_state": rm.GameState(),
		})
	}
}

func (h *LobbyHandlers) Results() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "archive_disabled")
			return
		}
		metricResultsQueryTotal.Add(1)
		limit := ParseLimit(r, 50)
		items, err := h.store.ListRecentResults(r.Context(), limit)
		if err != nil {
			metricResultsQueryErrors.Add(1)
			log.Error().Err(err).Msg("list_results_failed")
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit})
	}
}

func (h *LobbyHandlers) Result() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "archive_disabled")
			return
		}
		metricResultGetTotal.Add(1)
		res, err := h.store.GetResult(r.Context(), chi.URLParam(r, "result_id"))
		if errors.Is(err, store.ErrNotFound) {
			WriteHTTPError(w, http.StatusNotFound, "result_not_found")
			return
		}
		if err != nil {
			metricResultsQueryErrors.Add(1)
			log.Error().Err(err).Msg("get_result_failed")
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}
