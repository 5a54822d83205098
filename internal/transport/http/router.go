package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"gomoku-arena/internal/config"
	"gomoku-arena/internal/room"
	"gomoku-arena/internal/store"
)

// NewRouter wires the HTTP surface. st may be nil when no archive is
// configured.
func NewRouter(st *store.Store, logCfg config.LogConfig, dir *room.Directory, wsHandler http.HandlerFunc) *chi.Mux {
	lobby := NewLobbyHandlers(dir, st)
	admin := NewAdminHandlers(st)
	apiLog := APILogMiddleware(logCfg.HTTPAccess)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(apiLog).Get("/healthz", admin.Health())
	r.Get("/ws", wsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLog)
		r.Get("/rooms", lobby.Rooms())
		r.Get("/rooms/{room_id}/state", lobby.RoomState())
		r.Get("/results", lobby.Results())
		r.Get("/results/{result_id}", lobby.Result())
	})

	r.Route("/debug", func(r chi.Router) {
		r.Use(apiLog)
		r.Get("/vars", expvar.Handler().ServeHTTP)
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
