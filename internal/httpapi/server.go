package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"camerad/internal/discovery"
	"camerad/internal/manager"
	"camerad/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Discover(ctx context.Context) ([]types.Device, error)
	Devices() []types.Device
	Selection() []string
	Toggle(uid string) ([]string, error)
	OpenWindows(ctx context.Context) ([]types.WindowStatus, error)
	Windows() []types.WindowStatus
	Window(id string) (types.WindowStatus, error)
	WindowLog(id string) ([]string, error)
	CloseWindow(id string) error
	Status() types.StatusResponse
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)
	r.Use(RequestLogger)

	r.Post("/discover", func(w http.ResponseWriter, r *http.Request) {
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		devices, err := svc.Discover(joinedCtx)
		if err != nil {
			writeMappedError(w, err)
			return
		}
		writeJSON(w, types.DevicesResponse{Devices: devices})
	})

	r.Get("/devices", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.DevicesResponse{Devices: svc.Devices()})
	})

	r.Post("/devices/{uid}/toggle", func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		selected, err := svc.Toggle(uid)
		if err != nil {
			writeMappedError(w, err)
			return
		}
		writeJSON(w, types.SelectionResponse{Selected: selected})
	})

	r.Get("/selection", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.SelectionResponse{Selected: svc.Selection()})
	})

	r.Post("/windows", func(w http.ResponseWriter, r *http.Request) {
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		opened, err := svc.OpenWindows(joinedCtx)
		if err != nil {
			writeMappedError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		writeJSONBody(w, types.WindowsResponse{Windows: opened})
	})

	r.Get("/windows", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.WindowsResponse{Windows: svc.Windows()})
	})

	r.Get("/windows/{id}", func(w http.ResponseWriter, r *http.Request) {
		ws, err := svc.Window(chi.URLParam(r, "id"))
		if err != nil {
			writeMappedError(w, err)
			return
		}
		writeJSON(w, ws)
	})

	r.Get("/windows/{id}/log", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		lines, err := svc.WindowLog(id)
		if err != nil {
			writeMappedError(w, err)
			return
		}
		writeJSON(w, types.WindowLogResponse{ID: id, Lines: lines})
	})

	r.Delete("/windows/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CloseWindow(chi.URLParam(r, "id")); err != nil {
			writeMappedError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no devices"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// writeJSON writes a 200 JSON response.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	writeJSONBody(w, v)
}

func writeJSONBody(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logError(err, "failed to encode response")
	}
}

// writeMappedError maps well-known domain errors to HTTP status codes.
func writeMappedError(w http.ResponseWriter, err error) {
	switch {
	case discovery.IsNotAuthorized(err):
		writeJSONError(w, http.StatusForbidden, err.Error())
	case discovery.IsNoCamerasAvailable(err):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case manager.IsDeviceNotFound(err), manager.IsWindowNotFound(err):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case manager.IsCameraInUse(err):
		writeJSONError(w, http.StatusConflict, err.Error())
	case manager.IsConfigurationFailed(err):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	case manager.IsSessionStartFailed(err):
		writeJSONError(w, http.StatusBadGateway, err.Error())
	default:
		if he, ok := err.(HTTPError); ok {
			writeJSONError(w, he.StatusCode(), he.Error())
			return
		}
		if err == context.Canceled || err == context.DeadlineExceeded {
			writeJSONError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
