// Package api serves the taskflow HTTP API: accounts, projects, tasks and
// the dependency scheduler.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/routers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixgeelhaar/taskflow/internal/auth"
	"github.com/felixgeelhaar/taskflow/internal/errors"
	"github.com/felixgeelhaar/taskflow/internal/log"
	"github.com/felixgeelhaar/taskflow/internal/metrics"
	"github.com/felixgeelhaar/taskflow/internal/store"
)

const opScheduleTasks = "scheduleTasks"

// Options configures an API.
type Options struct {
	Store    store.Store
	Accounts *auth.Service
	Tokens   *auth.TokenService
	Metrics  *metrics.Metrics
	Logger   *log.Logger
}

// API holds the handlers and their dependencies.
type API struct {
	store     store.Store
	accounts  *auth.Service
	authn     *auth.Middleware
	validator *Validator
	metrics   *metrics.Metrics
	logger    *log.Logger
	mux       *http.ServeMux
}

// New builds the API and registers its routes.
func New(ctx context.Context, opts Options) (*API, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("api: store is required")
	}
	if opts.Tokens == nil {
		return nil, fmt.Errorf("api: token service is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.DefaultLogger()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.NewMetrics(prometheus.NewRegistry())
	}
	accounts := opts.Accounts
	if accounts == nil {
		accounts = auth.NewService(opts.Store, opts.Tokens, m, logger)
	}

	validator, err := NewValidator(ctx)
	if err != nil {
		return nil, err
	}

	a := &API{
		store:     opts.Store,
		accounts:  accounts,
		authn:     auth.NewMiddleware(opts.Tokens, logger),
		validator: validator,
		metrics:   m,
		logger:    logger.With("component", "api"),
		mux:       http.NewServeMux(),
	}
	a.routes()
	return a, nil
}

// Handler returns the routed API.
func (a *API) Handler() http.Handler {
	return a.mux
}

func (a *API) routes() {
	a.public("POST /api/auth/register", a.handleRegister)
	a.public("POST /api/auth/login", a.handleLogin)
	a.mux.HandleFunc("GET /openapi.yaml", a.handleOpenAPI)

	a.private("GET /api/auth/me", a.handleMe)

	a.private("GET /api/projects", a.handleListProjects)
	a.private("POST /api/projects", a.handleCreateProject)
	a.private("GET /api/projects/{id}", a.handleGetProject)
	a.private("DELETE /api/projects/{id}", a.handleDeleteProject)

	a.private("POST /api/projects/{projectId}/tasks", a.handleCreateTask)
	a.private("GET /api/tasks/{taskId}", a.handleGetTask)
	a.private("PUT /api/tasks/{taskId}", a.handleUpdateTask)
	a.private("DELETE /api/tasks/{taskId}", a.handleDeleteTask)

	a.private("POST /api/v1/projects/{projectId}/schedule", a.handleSchedule)
}

// public registers a route that validates its request and needs no token.
func (a *API) public(pattern string, h http.HandlerFunc) {
	a.mux.Handle(pattern, a.wrap(a.validator.Middleware(a.rejectRequest)(h)))
}

// private registers a route that authenticates before validating.
func (a *API) private(pattern string, h http.HandlerFunc) {
	a.mux.Handle(pattern, a.wrap(a.authn.RequireAuth(a.validator.Middleware(a.rejectRequest)(h))))
}

// wrap labels the request with its route and caps the body size.
func (a *API) wrap(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.SetRoute(r.Context(), r.Pattern)
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		h.ServeHTTP(w, r)
	})
}

// rejectRequest answers a request that does not match the API document.
// The schedule endpoint keeps its own response shape.
func (a *API) rejectRequest(w http.ResponseWriter, r *http.Request, route *routers.Route, err error) {
	tfErr := errors.Wrap(errors.ErrCodeRequestSchema, describeValidationError(err), err)

	if route != nil && route.Operation != nil && route.Operation.OperationID == opScheduleTasks {
		a.metrics.RecordSchedule(metrics.OutcomeInvalid, 0, 0)
		a.writeScheduleError(w, r, tfErr)
		return
	}
	a.writeError(w, r, tfErr)
}

func (a *API) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openAPIDocument)
}

// claims returns the authenticated caller. Only valid behind RequireAuth.
func claims(r *http.Request) *auth.Claims {
	return auth.ClaimsFromContext(r.Context())
}
