// Package httpapi serves the optional side listener of the MCP server:
// liveness, Prometheus metrics and the simulator inventory.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ironsheep/ios-screenshot-mcp/internal/device"
	"github.com/ironsheep/ios-screenshot-mcp/internal/metrics"
)

const (
	requestTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

// DeviceLister reports the simulators that can be captured.
type DeviceLister interface {
	ListAvailableDevices(ctx context.Context) []device.Device
}

type Handler struct {
	log     zerolog.Logger
	metrics *metrics.Metrics
	devices DeviceLister
}

// NewHandler creates a Handler. m and devices may be nil.
func NewHandler(log zerolog.Logger, m *metrics.Metrics, devices DeviceLister) *Handler {
	return &Handler{log: log, metrics: m, devices: devices}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(h.accessLog)

	r.Get("/healthz", h.handleHealthz)
	r.Get("/devices", h.handleDevices)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	return r
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.metrics.ObserveHTTPRequest(routePattern(r), status)

		h.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("http_request")
	})
}

// routePattern keeps the metrics label set bounded to registered routes.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleDevices(w http.ResponseWriter, r *http.Request) {
	if h.devices == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error": map[string]any{"code": "unavailable", "message": "device inventory not configured"},
		})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"devices": h.devices.ListAvailableDevices(r.Context())})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Serve runs the listener on addr until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, addr string, h *Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.log.Info().Str("addr", addr).Msg("http listener started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	h.log.Info().Msg("http listener stopped")
	return nil
}
