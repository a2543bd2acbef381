package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dErrors "credhub/pkg/domain-errors"
	"credhub/pkg/platform/httputil"
	"credhub/pkg/platform/middleware/request"
)

// Routes is implemented by every handler that mounts endpoints.
type Routes interface {
	Register(r chi.Router)
}

// NewRouter wires all public endpoints with the shared middleware stack.
// Handlers stay thin and delegate to domain services.
func NewRouter(logger *slog.Logger, metrics *request.Metrics, routes ...Routes) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(logger))
	r.Use(request.LatencyMiddleware(metrics))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no such endpoint"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{
			Error:            "method_not_allowed",
			ErrorDescription: r.Method + " is not supported on " + r.URL.Path,
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	for _, routes := range routes {
		routes.Register(r)
	}
	return r
}
