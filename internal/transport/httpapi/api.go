package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/davarch/ci-dashboard/internal/application"
	"github.com/davarch/ci-dashboard/internal/domain"
	"github.com/davarch/ci-dashboard/internal/infrastructure/dashboard"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// API holds dependencies for the HTTP handlers. Triggers may be nil, which
// disables the POST routes.
type API struct {
	Log       *zap.Logger
	Status    *application.Aggregator
	Triggers  *application.TriggerUseCase
	Dashboard *dashboard.Document
	Metrics   bool
}

func (a *API) Handler() http.Handler {
	methods := "GET, OPTIONS"
	if a.Triggers != nil {
		methods = "GET, POST, OPTIONS"
	}
	return accessLog(a.Log, cors(methods, http.HandlerFunc(a.route)))
}

func (a *API) route(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case r.Method == http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet && (path == "/" || path == "/dashboard"):
		a.handleDashboard(w, r)
	case r.Method == http.MethodGet && (path == "/status" || path == "/api/status"):
		a.handleAll(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/status/") && len(path) > len("/status/"):
		a.handleOne(w, r, strings.TrimPrefix(path, "/status/"))
	case r.Method == http.MethodGet && path == "/metrics" && a.Metrics:
		promhttp.Handler().ServeHTTP(w, r)
	case r.Method == http.MethodPost && a.Triggers != nil && strings.HasPrefix(path, "/trigger/"):
		a.handleTrigger(w, r, strings.TrimPrefix(path, "/trigger/"))
	case r.Method == http.MethodPost && a.Triggers != nil && strings.HasPrefix(path, "/trigger-bulk/"):
		a.handleTriggerBulk(w, r, strings.TrimPrefix(path, "/trigger-bulk/"))
	default:
		notFound(w)
	}
}

func (a *API) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Dashboard.Bytes())
}

// Status queries keep running if the client goes away so a slow gh call
// still lands in the cache.
func (a *API) handleAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(a.Log, w, http.StatusOK, a.Status.GetAll(context.WithoutCancel(r.Context())))
}

func (a *API) handleOne(w http.ResponseWriter, r *http.Request, app string) {
	snap, err := a.Status.GetOne(context.WithoutCancel(r.Context()), app)
	if errors.Is(err, domain.ErrUnknownApplication) {
		writeJSON(a.Log, w, http.StatusNotFound, map[string]string{"error": "App not found"})
		return
	}
	writeJSON(a.Log, w, http.StatusOK, snap)
}

func (a *API) handleTrigger(w http.ResponseWriter, r *http.Request, rest string) {
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		notFound(w)
		return
	}

	res, err := a.Triggers.Trigger(context.WithoutCancel(r.Context()), parts[0], parts[1])
	switch {
	case errors.Is(err, domain.ErrUnknownApplication):
		writeJSON(a.Log, w, http.StatusNotFound, map[string]string{"error": "App not found"})
	case errors.Is(err, domain.ErrUnknownPlatform):
		writeJSON(a.Log, w, http.StatusBadRequest, map[string]string{"error": "Invalid platform"})
	default:
		writeJSON(a.Log, w, http.StatusOK, res)
	}
}

func (a *API) handleTriggerBulk(w http.ResponseWriter, r *http.Request, target string) {
	res, err := a.Triggers.TriggerBulk(context.WithoutCancel(r.Context()), target)
	if err != nil {
		writeJSON(a.Log, w, http.StatusBadRequest, map[string]string{"error": "Invalid platform"})
		return
	}
	writeJSON(a.Log, w, http.StatusOK, res)
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not found"))
}

func writeJSON(l *zap.Logger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		l.Warn("failed to write JSON response", zap.Error(err))
	}
}

// routeOf collapses paths into a bounded set of metric labels.
func routeOf(r *http.Request) string {
	p := r.URL.Path
	switch {
	case r.Method == http.MethodOptions:
		return "options"
	case p == "/" || p == "/dashboard":
		return "dashboard"
	case p == "/status" || p == "/api/status":
		return "status_all"
	case strings.HasPrefix(p, "/status/"):
		return "status_one"
	case p == "/metrics":
		return "metrics"
	case strings.HasPrefix(p, "/trigger/"):
		return "trigger"
	case strings.HasPrefix(p, "/trigger-bulk/"):
		return "trigger_bulk"
	default:
		return "other"
	}
}
