package reportshandler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrinsight/internal/domain/auth"
	"hrinsight/internal/platform/jobs"
	"hrinsight/internal/transport/http/api"
	"hrinsight/internal/transport/http/middleware"
	"hrinsight/internal/transport/http/shared"
)

type RunReader interface {
	ListRuns(ctx context.Context, tenantID, jobType string, limit, offset int) ([]jobs.Run, error)
	GetRun(ctx context.Context, tenantID, runID string) (jobs.Run, error)
}

type Handler struct {
	Jobs  RunReader
	Perms middleware.PermissionStore
}

func NewHandler(runs RunReader, perms middleware.PermissionStore) *Handler {
	return &Handler{Jobs: runs, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/jobs", h.handleListRuns)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/jobs/{runID}", h.handleGetRun)
	})
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	jobType := strings.TrimSpace(r.URL.Query().Get("jobType"))

	runs, err := h.Jobs.ListRuns(r.Context(), user.TenantID, jobType, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_runs_failed", "failed to list job runs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	run, err := h.Jobs.GetRun(r.Context(), user.TenantID, chi.URLParam(r, "runID"))
	if errors.Is(err, jobs.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "job run not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_run_failed", "failed to load job run", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}
