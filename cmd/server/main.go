package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/engrave/internal/collab"
	"github.com/inamate/engrave/internal/config"
	"github.com/inamate/engrave/internal/db"
	"github.com/inamate/engrave/internal/db/dbgen"
	"github.com/inamate/engrave/internal/engine"
	mw "github.com/inamate/engrave/internal/middleware"
	"github.com/inamate/engrave/internal/render"
	"github.com/inamate/engrave/internal/score"
	"github.com/inamate/engrave/internal/share"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	queries := dbgen.New(pool)

	engineOpts := []engine.Option{
		engine.WithStaffUnit(cfg.StaffUnit),
		engine.WithPixelScale(cfg.PixelScale),
		engine.WithPageSize(cfg.PageWidth, cfg.PageHeight),
	}

	shareService := share.NewService(cfg.ShareSecret)
	scoreService := score.NewService(queries, engineOpts...)
	scoreHandler := score.NewHandler(scoreService, shareService)

	// The live preview hub persists through the score service so stored revisions are
	// validated and versioned the same way as REST saves.
	hub := collab.NewHub(scoreService.LatestDocument, scoreService.SaveSnapshot, engineOpts...)
	go hub.Run()

	renderHandler := render.NewHandler(cfg.RenderDir, render.Settings{
		StaffUnit:  cfg.StaffUnit,
		PixelScale: cfg.PixelScale,
		PageWidth:  cfg.PageWidth,
		PageHeight: cfg.PageHeight,
	})

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Stateless rendering
	r.HandleFunc("/render", renderHandler.Commands).Methods("POST")
	r.HandleFunc("/render.png", renderHandler.PNG).Methods("POST")
	r.PathPrefix("/renders/").Handler(renderHandler.Serve()).Methods("GET")

	// Stored scores
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scores", scoreHandler.List).Methods("GET")
	api.HandleFunc("/scores", scoreHandler.Create).Methods("POST")
	api.HandleFunc("/scores/{scoreId}", scoreHandler.Get).Methods("GET")
	api.HandleFunc("/scores/{scoreId}", scoreHandler.Delete).Methods("DELETE")
	api.HandleFunc("/scores/{scoreId}/snapshots", scoreHandler.SaveSnapshot).Methods("POST")
	api.HandleFunc("/scores/{scoreId}/snapshots/latest", scoreHandler.GetLatestSnapshot).Methods("GET")
	api.HandleFunc("/scores/{scoreId}/render", scoreHandler.Render).Methods("GET")
	api.HandleFunc("/scores/{scoreId}/render.png", scoreHandler.RenderPNG).Methods("GET")
	api.HandleFunc("/scores/{scoreId}/tuplets/{tupletId}", scoreHandler.TupletGeometry).Methods("GET")
	api.HandleFunc("/scores/{scoreId}/share", scoreHandler.Share).Methods("POST")

	// Read-only share links
	shared := r.PathPrefix("/shared/{token}").Subrouter()
	shared.Use(shareService.Middleware)
	shared.HandleFunc("/render", scoreHandler.RenderShared).Methods("GET")

	// Live preview
	r.HandleFunc("/ws/score/{scoreId}", hub.ServeScore(cfg.Origins()))

	// Preflight for every route; CORS answers it before this handler runs.
	r.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the hub first so rooms with unsaved edits are stored.
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
