package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Provider call outcomes, one per error type plus success.
const (
	OutcomeSuccess   = "success"
	OutcomeProvider  = "provider_error"
	OutcomeTransport = "transport_error"
	OutcomeMapping   = "mapping_error"
)

// Image Generation API Metrics
var (
	// HTTP request counter
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "image_api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "image_api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"method", "endpoint"},
	)

	// FAL.ai calls by outcome
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "image_api",
			Name:      "provider_requests_total",
			Help:      "Total outbound image generation calls",
		},
		[]string{"model", "outcome"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "image_api",
			Name:      "provider_request_duration_seconds",
			Help:      "Outbound image generation call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"model"},
	)

	GeneratedImagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "image_api",
			Name:      "generated_images_total",
			Help:      "Total images returned by the provider",
		},
		[]string{"model", "output_format"},
	)
)

// RecordRequest records an inbound HTTP request
func RecordRequest(method, endpoint, status string, duration float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordProviderCall records one outbound provider call
func RecordProviderCall(model, outcome string, duration float64) {
	ProviderRequestsTotal.WithLabelValues(model, outcome).Inc()
	ProviderRequestDuration.WithLabelValues(model).Observe(duration)
}

// RecordGeneratedImages adds the number of images returned for a call
func RecordGeneratedImages(model, outputFormat string, count int) {
	if count <= 0 {
		return
	}
	GeneratedImagesTotal.WithLabelValues(model, outputFormat).Add(float64(count))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve runs the metrics listener until ctx is cancelled.
func Serve(ctx context.Context, addr string, shutdownTimeout time.Duration, log zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return err
	}
}
