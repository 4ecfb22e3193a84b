package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter - builds the HTTP API. When staticDir is set, the rendering layer's files are served from /.
func NewRouter(logger *slog.Logger, game gameUseCase, staticDir string) http.Handler {
	handler := newGameHandler(logger, game)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/ping", pingHandler)

	router.Route("/api/game", func(r chi.Router) {
		r.Get("/", handler.GetGame)
		r.Delete("/", handler.EndSession)
		r.Post("/moves", handler.MakeMove)
		r.Post("/jump", handler.JumpTo)
		r.Post("/reset", handler.Reset)
	})

	if staticDir != "" {
		router.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}

	return router
}

// New - returns an HTTP server with the service's standard timeouts.
func New(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
}
