package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lzjever/wsm/internal/api/middleware"
	"github.com/lzjever/wsm/internal/core"
	"github.com/lzjever/wsm/internal/installer"
	"github.com/lzjever/wsm/internal/lifecycle"
	"github.com/lzjever/wsm/internal/query"
	"github.com/lzjever/wsm/internal/scanner"
)

type Deps struct {
	Manager   *lifecycle.Manager
	Installer *installer.Orchestrator
	Query     *query.Query
	Scanner   *scanner.Scanner
	// Ready reports whether the process can serve traffic.
	Ready func(ctx context.Context) error
}

type API struct {
	manager   *lifecycle.Manager
	installer *installer.Orchestrator
	query     *query.Query
	scanner   *scanner.Scanner
	ready     func(ctx context.Context) error
	idem      *core.IdempotencyKeys
	log       *zap.Logger
}

func NewAPI(deps Deps, log *zap.Logger) *API {
	return &API{
		manager:   deps.Manager,
		installer: deps.Installer,
		query:     deps.Query,
		scanner:   deps.Scanner,
		ready:     deps.Ready,
		idem:      core.NewIdempotencyKeys(1024),
		log:       log,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recoverer(a.log))
	r.Use(middleware.Logger(a.log))
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Get("/healthz", a.HealthHandler)
	r.Get("/readyz", a.ReadyHandler)

	r.Route("/v1", func(r chi.Router) {
		// Workspaces
		r.Get("/workspaces", a.ListWorkspaces)
		r.Post("/workspaces", a.CreateWorkspace)
		r.Get("/workspaces:active", a.GetActive)
		r.Get("/workspaces/{wsid}", a.GetWorkspace)
		r.Patch("/workspaces/{wsid}", a.UpdateWorkspace)
		r.Delete("/workspaces/{wsid}", a.DeleteWorkspace)
		r.Post("/workspaces/{wsid}:activate", a.ActivateWorkspace)
		r.Post("/workspaces/{wsid}:deactivate", a.DeactivateWorkspace)

		// Installation
		r.Post("/workspaces/{wsid}:install", a.StartInstallation)
		r.Get("/installation", a.GetInstallation)
		r.Post("/installation:cancel", a.CancelInstallation)

		// Templates
		r.Get("/templates", a.ListTemplates)
		r.Post("/templates/{template_id}:create", a.CreateFromTemplate)

		// Host
		r.Get("/system/tools", a.ScanTools)
	})

	return r
}

// fail writes err as an AppError response, hiding unexpected errors behind
// WSM_INTERNAL.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *core.AppError
	if errors.As(err, &appErr) {
		WriteError(w, appErr)
		return
	}
	a.log.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetRequestID(r)),
		zap.Error(err),
	)
	WriteError(w, core.NewAppError(core.ErrInternal, "internal error"))
}
