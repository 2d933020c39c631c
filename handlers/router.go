package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// SetupRouter routes every GET and HEAD request to a Dispatcher over
// outputDir. Other methods get 405.
func SetupRouter(outputDir string) *mux.Router {
	router := mux.NewRouter()
	router.Use(logRequests)
	router.PathPrefix("/").Methods(http.MethodGet, http.MethodHead).Handler(&Dispatcher{OutputDir: outputDir})
	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
