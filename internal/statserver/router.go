package statserver

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gatherhub/server/internal/api/middleware"
	"github.com/gatherhub/server/internal/metrics"
)

// NewRouter assembles the stats service HTTP surface.
func NewRouter(service *Service, pool *pgxpool.Pool, env string, logger zerolog.Logger) http.Handler {
	handler := NewHandler(service, env)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /hit", handler.RecordHit)
	mux.HandleFunc("GET /stats", handler.Stats)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		w.Header().Set("Content-Type", "application/json")
		if err := pool.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	var wrapped http.Handler = mux
	wrapped = middleware.RequestLogging(logger)(wrapped)
	wrapped = middleware.Tracing(wrapped)
	wrapped = middleware.CorrelationID(logger)(wrapped)
	return wrapped
}
