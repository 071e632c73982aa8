package build

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for the files-processed counter.
const (
	outcomeOK         = "ok"
	outcomeParseError = "parse_error"
	outcomeEmpty      = "empty"
	outcomeWriteError = "write_error"
)

var (
	filesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "genmap_files_processed_total",
		Help: "Input files processed, by outcome.",
	}, []string{"outcome"})

	occurrencesCounted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genmap_predicate_occurrences_total",
		Help: "Predicate occurrences counted across all scanned files.",
	})

	distinctPredicates = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "genmap_distinct_predicates",
		Help: "Distinct predicates in the most recent merged catalog.",
	})
)

// ServeMetrics exposes /metrics on addr until the context is done.
// Useful for long corpus scans and watch mode; a listen failure is
// logged, never fatal.
func ServeMetrics(ctx context.Context, addr string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Info("serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics listener failed", slog.String("error", err.Error()))
		}
	}()
}
