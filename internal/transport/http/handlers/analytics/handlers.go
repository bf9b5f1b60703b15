package analyticshandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrinsight/internal/domain/attrition"
	"hrinsight/internal/domain/audit"
	"hrinsight/internal/domain/auth"
	"hrinsight/internal/domain/employees"
	"hrinsight/internal/domain/salary"
	"hrinsight/internal/domain/sentiment"
	"hrinsight/internal/domain/talent"
	"hrinsight/internal/platform/jobs"
	"hrinsight/internal/transport/http/api"
	"hrinsight/internal/transport/http/middleware"
	"hrinsight/internal/transport/http/shared"
)

const maxClassifyTextLength = 10000

type AttritionService interface {
	Recalculate(ctx context.Context, tenantID string) (attrition.RecalcSummary, error)
	Top(ctx context.Context, tenantID string, q attrition.TopQuery) ([]attrition.RiskEntry, error)
	EmployeeRisk(ctx context.Context, tenantID, employeeID string) (attrition.EmployeeRisk, error)
	Report(ctx context.Context, tenantID string, q attrition.TopQuery, dir string) ([]byte, string, error)
}

type SalaryService interface {
	Bias(ctx context.Context, tenantID, attribute string) (salary.BiasReport, error)
	Warnings(ctx context.Context, tenantID, groupBy string, threshold float64) ([]salary.Warning, error)
}

type SentimentService interface {
	ReviewSentiment(ctx context.Context, tenantID string, filter sentiment.Filter) (sentiment.Report, error)
}

type MatrixService interface {
	Matrix(ctx context.Context, tenantID, departmentID string) (talent.Matrix, error)
}

type RecalcQueue interface {
	EnqueueRecalculation(tenantID string, recalc jobs.Recalculator) bool
}

type Auditor interface {
	Record(ctx context.Context, tenantID, actorID, action, entityType, entityID, requestID, ip string, details any) error
}

type Handler struct {
	Attrition  AttritionService
	Salary     SalaryService
	Sentiment  SentimentService
	Talent     MatrixService
	Audit      Auditor
	Queue      RecalcQueue
	Perms      middleware.PermissionStore
	ReportsDir string
}

func NewHandler(attr AttritionService, sal SalaryService, sent SentimentService, tal MatrixService, auditor Auditor, perms middleware.PermissionStore) *Handler {
	return &Handler{Attrition: attr, Salary: sal, Sentiment: sent, Talent: tal, Audit: auditor, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermAnalyticsRead, h.Perms)
	run := middleware.RequirePermission(auth.PermAnalyticsRun, h.Perms)
	r.Route("/analytics", func(r chi.Router) {
		r.With(read).Get("/attrition/top", h.handleAttritionTop)
		r.With(run).Post("/attrition/recalculate", h.handleRecalculate)
		r.With(read).Get("/attrition/employees/{employeeID}", h.handleEmployeeRisk)
		r.With(read).Get("/attrition/report.pdf", h.handleAttritionReport)
		r.With(read).Get("/salary-bias", h.handleSalaryBias)
		r.With(read).Get("/salary-warnings", h.handleSalaryWarnings)
		r.With(read).Get("/review-sentiment", h.handleReviewSentiment)
		r.With(read).Post("/sentiment/classify", h.handleClassify)
		r.With(read).Get("/performance-potential", h.handlePerformancePotential)
	})
}

func parseTopQuery(r *http.Request, v *shared.Validator) attrition.TopQuery {
	q := attrition.TopQuery{
		Level:        strings.ToLower(strings.TrimSpace(r.URL.Query().Get("level"))),
		DepartmentID: strings.TrimSpace(r.URL.Query().Get("departmentId")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			v.Add("limit", "must be a positive integer")
		}
		q.Limit = limit
	}
	v.Enum("level", q.Level, []string{attrition.LevelHigh, attrition.LevelMedium, attrition.LevelLow}, "must be one of high, medium, low")
	return q
}

func (h *Handler) handleAttritionTop(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	q := parseTopQuery(r, v)
	if v.Reject(w, reqID) {
		return
	}

	entries, err := h.Attrition.Top(r.Context(), user.TenantID, q)
	if err != nil {
		writeError(w, reqID, err, "attrition_top_failed", "failed to load attrition risk")
		return
	}
	api.Success(w, entries, reqID)
}

func (h *Handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	if h.Queue != nil && r.URL.Query().Get("async") == "true" {
		if !h.Queue.EnqueueRecalculation(user.TenantID, h.Attrition) {
			api.Fail(w, http.StatusServiceUnavailable, "queue_full", "recalculation queue is full", reqID)
			return
		}
		h.record(r, user, audit.ActionAttritionRecalculate, "attrition_batch", "", map[string]any{"async": true})
		api.Accepted(w, map[string]string{"status": "queued"}, reqID)
		return
	}

	summary, err := h.Attrition.Recalculate(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, reqID, err, "attrition_recalculate_failed", "failed to recalculate attrition risk")
		return
	}
	h.record(r, user, audit.ActionAttritionRecalculate, "attrition_batch", summary.BatchID, map[string]any{
		"processed": summary.Processed,
		"high":      summary.High,
		"escalated": len(summary.Escalated),
	})
	api.Success(w, summary, reqID)
}

func (h *Handler) handleEmployeeRisk(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	risk, err := h.Attrition.EmployeeRisk(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"))
	if err != nil {
		writeError(w, reqID, err, "attrition_employee_failed", "failed to load employee risk")
		return
	}
	api.Success(w, risk, reqID)
}

func (h *Handler) handleAttritionReport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	q := parseTopQuery(r, v)
	if v.Reject(w, reqID) {
		return
	}

	pdf, path, err := h.Attrition.Report(r.Context(), user.TenantID, q, h.ReportsDir)
	if err != nil {
		writeError(w, reqID, err, "attrition_report_failed", "failed to render attrition report")
		return
	}
	filename := "attrition-report.pdf"
	if path != "" {
		filename = filepath.Base(path)
	}
	h.record(r, user, audit.ActionAttritionReport, "attrition_report", filename, map[string]any{"limit": q.Limit, "level": q.Level})

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("write attrition report failed", "err", err)
	}
}

func (h *Handler) handleSalaryBias(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	attribute := strings.TrimSpace(r.URL.Query().Get("attribute"))
	v := shared.NewValidator()
	v.Required("attribute", attribute, "is required")
	if v.Reject(w, reqID) {
		return
	}

	report, err := h.Salary.Bias(r.Context(), user.TenantID, attribute)
	if err != nil {
		writeError(w, reqID, err, "salary_bias_failed", "failed to analyze salary bias")
		return
	}
	h.record(r, user, audit.ActionSalaryBiasView, "salary_bias", attribute, map[string]any{"severity": report.Severity})
	api.Success(w, report, reqID)
}

func (h *Handler) handleSalaryWarnings(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	groupBy := strings.TrimSpace(r.URL.Query().Get("groupBy"))
	var threshold float64
	v := shared.NewValidator()
	if raw := strings.TrimSpace(r.URL.Query().Get("threshold")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			v.Add("threshold", "must be a number")
		} else {
			v.Range("threshold", parsed, 0, 100, "must be greater than 0 and at most 100")
			threshold = parsed
		}
	}
	v.Enum("groupBy", groupBy, []string{salary.GroupByJobTitle, salary.GroupByDepartment}, "must be jobTitle or department")
	if v.Reject(w, reqID) {
		return
	}

	warnings, err := h.Salary.Warnings(r.Context(), user.TenantID, groupBy, threshold)
	if err != nil {
		writeError(w, reqID, err, "salary_warnings_failed", "failed to detect salary anomalies")
		return
	}
	h.record(r, user, audit.ActionSalaryWarningsView, "salary_warnings", groupBy, map[string]any{"count": len(warnings)})
	api.Success(w, warnings, reqID)
}

func (h *Handler) handleReviewSentiment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	filter := sentiment.Filter{
		CycleID:    strings.TrimSpace(r.URL.Query().Get("cycleId")),
		EmployeeID: strings.TrimSpace(r.URL.Query().Get("employeeId")),
	}
	report, err := h.Sentiment.ReviewSentiment(r.Context(), user.TenantID, filter)
	if err != nil {
		writeError(w, reqID, err, "review_sentiment_failed", "failed to analyze review sentiment")
		return
	}
	api.Success(w, report, reqID)
}

type classifyRequest struct {
	Text string `json:"text"`
}

func (h *Handler) handleClassify(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	v.MaxLength("text", payload.Text, maxClassifyTextLength, "must be at most 10000 characters")
	if v.Reject(w, reqID) {
		return
	}
	api.Success(w, sentiment.Classify(payload.Text), reqID)
}

func (h *Handler) handlePerformancePotential(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	matrix, err := h.Talent.Matrix(r.Context(), user.TenantID, strings.TrimSpace(r.URL.Query().Get("departmentId")))
	if err != nil {
		writeError(w, reqID, err, "performance_potential_failed", "failed to build performance matrix")
		return
	}
	api.Success(w, matrix, reqID)
}

func (h *Handler) record(r *http.Request, user auth.UserContext, action, entityType, entityID string, details any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), user.TenantID, user.UserID, action, entityType, entityID, middleware.GetRequestID(r.Context()), r.RemoteAddr, details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func writeError(w http.ResponseWriter, reqID string, err error, code, message string) {
	switch {
	case errors.Is(err, employees.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.Is(err, attrition.ErrInvalidLevel),
		errors.Is(err, salary.ErrUnknownAttribute),
		errors.Is(err, salary.ErrUnknownGroupBy),
		errors.Is(err, salary.ErrInvalidThreshold):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
	default:
		slog.Warn("analytics request failed", "code", code, "requestId", reqID, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}
