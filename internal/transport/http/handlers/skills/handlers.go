package skillshandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrinsight/internal/domain/auth"
	"hrinsight/internal/domain/employees"
	"hrinsight/internal/domain/skills"
	"hrinsight/internal/transport/http/api"
	"hrinsight/internal/transport/http/middleware"
	"hrinsight/internal/transport/http/shared"
)

const maxTeamSize = 500

type GapService interface {
	Profiles(ctx context.Context, tenantID string) ([]skills.JobProfile, error)
	EmployeeGap(ctx context.Context, tenantID, employeeID, profileID string) (skills.Analysis, error)
	TeamGap(ctx context.Context, tenantID string, req skills.TeamRequest) (skills.Analysis, error)
}

type Handler struct {
	Service GapService
	Perms   middleware.PermissionStore
}

func NewHandler(service GapService, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/skills", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermSkillsRead, h.Perms))
		r.Get("/job-profiles", h.handleProfiles)
		r.Get("/gap-analysis/employees/{employeeID}", h.handleEmployeeGap)
		r.Post("/gap-analysis/team", h.handleTeamGap)
	})
}

func (h *Handler) handleProfiles(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	profiles, err := h.Service.Profiles(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, reqID, err, "job_profiles_failed", "failed to list job profiles")
		return
	}
	api.Success(w, profiles, reqID)
}

func (h *Handler) handleEmployeeGap(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	profileID := strings.TrimSpace(r.URL.Query().Get("profileId"))
	v := shared.NewValidator()
	v.Required("profileId", profileID, "is required")
	if v.Reject(w, reqID) {
		return
	}

	analysis, err := h.Service.EmployeeGap(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"), profileID)
	if err != nil {
		writeError(w, reqID, err, "skills_gap_failed", "failed to analyze skills gap")
		return
	}
	api.Success(w, analysis, reqID)
}

func (h *Handler) handleTeamGap(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload skills.TeamRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.ProfileID = strings.TrimSpace(payload.ProfileID)
	payload.DepartmentID = strings.TrimSpace(payload.DepartmentID)

	v := shared.NewValidator()
	v.Required("profileId", payload.ProfileID, "is required")
	if len(payload.EmployeeIDs) == 0 && payload.DepartmentID == "" {
		v.Add("employeeIds", "employeeIds or departmentId is required")
	}
	if len(payload.EmployeeIDs) > maxTeamSize {
		v.Add("employeeIds", "must contain at most 500 ids")
	}
	if v.Reject(w, reqID) {
		return
	}

	analysis, err := h.Service.TeamGap(r.Context(), user.TenantID, payload)
	if err != nil {
		writeError(w, reqID, err, "team_gap_failed", "failed to analyze team skills gap")
		return
	}
	api.Success(w, analysis, reqID)
}

func writeError(w http.ResponseWriter, reqID string, err error, code, message string) {
	switch {
	case errors.Is(err, employees.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.Is(err, skills.ErrProfileNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "job profile not found", reqID)
	case errors.Is(err, skills.ErrEmptyTeam), errors.Is(err, skills.ErrProfileRequired):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
	default:
		slog.Warn("skills request failed", "code", code, "requestId", reqID, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}
