package server

import (
	"context"
	_ "embed"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

//go:embed static/index.html
var indexHTML []byte

// SetupRoutes configures all routes. metricsHandler may be nil.
func SetupRoutes(handler *Handler, metricsHandler http.Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", handler.Index).Methods("GET")
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analyze", handler.Analyze).Methods("POST")
	api.HandleFunc("/analysis", handler.GetAnalysis).Methods("GET")
	api.HandleFunc("/charts/{symbol}", handler.GetCharts).Methods("GET")
	api.HandleFunc("/report/download", handler.DownloadReport).Methods("GET")
	api.HandleFunc("/history", handler.History).Methods("GET")

	r.Use(logRequests)
	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if r.URL.Path != "/health" && r.URL.Path != "/metrics" {
			log.Printf("[INFO] %s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
		}
	})
}

// Run serves h on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] http shutdown: %v", err)
		}
	}()

	log.Printf("[INFO] dashboard listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
