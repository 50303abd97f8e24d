package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/drawkit/drawkit/internal/auth"
	"github.com/drawkit/drawkit/internal/config"
	"github.com/drawkit/drawkit/internal/db"
	"github.com/drawkit/drawkit/internal/document"
	"github.com/drawkit/drawkit/internal/drawing"
	"github.com/drawkit/drawkit/internal/live"
	mw "github.com/drawkit/drawkit/internal/middleware"
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

	if err := db.EnsureSchema(ctx, pool); err != nil {
		slog.Error("prepare database", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(cfg.AdminPasswordHash, cfg.JWTSecret)
	if !authService.Enabled() {
		slog.Warn("ADMIN_PASSWORD_HASH is empty, the API is open to everyone")
	}
	authHandler := auth.NewHandler(authService)

	drawingService := drawing.NewService(drawing.NewPGStore(pool))
	drawingHandler := drawing.NewHandler(drawingService)

	// Live sessions load and save through the drawing service.
	load := func(ctx context.Context, id string) (*document.Shape, error) {
		return drawingService.Load(ctx, id)
	}
	save := func(ctx context.Context, id string, doc *document.Shape) error {
		_, err := drawingService.Save(ctx, id, doc)
		return err
	}
	hub := live.NewHub(load, save, cfg.EditorOptions(slog.Default()), cfg.FrameRate)
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/drawings", drawingHandler.List).Methods("GET")
	api.HandleFunc("/drawings", drawingHandler.Create).Methods("POST")
	api.HandleFunc("/drawings/{drawingId}", drawingHandler.Get).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}", drawingHandler.Update).Methods("PUT")
	api.HandleFunc("/drawings/{drawingId}", drawingHandler.Delete).Methods("DELETE")
	api.HandleFunc("/drawings/{drawingId}/source", drawingHandler.Source).Methods("GET")

	// Browsers cannot set headers on websocket upgrades, so the token comes
	// in the query string.
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(authService.AuthMiddleware)
	ws.HandleFunc("/drawings/{drawingId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, drawingService, cfg.Origins())
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the hub first so open sessions save their drawings.
		slog.Info("closing live sessions", "open", hub.Count())
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

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *live.Hub, drawings *drawing.Service, origins []string) {
	drawingID := mux.Vars(r)["drawingId"]

	if _, err := drawings.Get(r.Context(), drawingID); err != nil {
		if errors.Is(err, drawing.ErrNotFound) {
			http.Error(w, "drawing not found", http.StatusNotFound)
			return
		}
		slog.Error("websocket drawing lookup", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(origins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	if err := hub.Serve(r.Context(), conn, drawingID); err != nil {
		slog.Warn("live session", "drawing", drawingID, "error", err)
	}
}

// originPatterns strips the scheme from configured origins, which is the form
// websocket.AcceptOptions matches against.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
		}
	}
	return out
}
