package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"gomoku-arena/internal/config"
	"gomoku-arena/internal/gateway"
	"gomoku-arena/internal/hub"
	"gomoku-arena/internal/logging"
	"gomoku-arena/internal/room"
	"gomoku-arena/internal/store"
	httptransport "gomoku-arena/internal/transport/http"
	"gomoku-arena/internal/ws"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logging.Close()

	var st *store.Store
	if cfg.Server.PostgresDSN != "" {
		st, err = openArchive(cfg.Server.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("archive init failed")
		}
		defer st.Close()
	} else {
		log.Info().Msg("archive disabled; POSTGRES_DSN not set")
	}

	router := newRouter(cfg, st)
	httptransport.LogRoutes(router)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("gomoku server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func openArchive(dsn string) (*store.Store, error) {
	st, err := store.New(dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.Ping(ctx); err != nil {
		st.Close()
		return nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// newRouter assembles the session engine and its HTTP surface. st may be
// nil.
func newRouter(cfg config.AppConfig, st *store.Store) *chi.Mux {
	registry := hub.NewRegistry()
	fanout := hub.NewFanout()
	dir := room.NewDirectory(room.Config{
		MoveTimeout:    cfg.Server.MoveTimeout,
		MoveWarning:    cfg.Server.MoveWarning,
		ReconnectGrace: cfg.Server.ReconnectGrace,
	}, registry, fanout)
	if st != nil {
		dir.SetResultRecorder(st)
	}

	gw := gateway.New(dir, registry, fanout)
	wsSrv := ws.NewServer(gw, ws.Config{
		SendBuffer:     cfg.Server.WSSendBuffer,
		ReadLimit:      cfg.Server.WSReadLimit,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	return httptransport.NewRouter(st, cfg.Log, dir, wsSrv.HandleWS)
}
