package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter - registers the REST routes and wraps them with CORS.
func NewRouter(handlers Handlers, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ping", handlers.Ping).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sessions", handlers.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", handlers.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", handlers.EndSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/moves", handlers.MakeMove).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reset", handlers.Reset).Methods(http.MethodPost)
	api.HandleFunc("/analyze", handlers.Analyze).Methods(http.MethodPost)

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

// Start - serves handler on port until ctx is done.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
