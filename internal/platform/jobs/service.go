package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/robfig/cron/v3"

	"hrinsight/internal/domain/attrition"
	"hrinsight/internal/platform/querier"
)

var ErrRunNotFound = errors.New("job run not found")

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Recalculator is the part of the attrition service the scheduler drives.
type Recalculator interface {
	Recalculate(ctx context.Context, tenantID string) (attrition.RecalcSummary, error)
}

type Service struct {
	DB    querier.Querier
	queue chan job
}

type job struct {
	Type     string
	TenantID string
	Run      func(context.Context) (any, error)
}

type Run struct {
	ID          string          `json:"id"`
	JobType     string          `json:"jobType"`
	Status      string          `json:"status"`
	Details     json.RawMessage `json:"details,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

func New(db querier.Querier) *Service {
	return &Service{
		DB:    db,
		queue: make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

// ScheduleRecalculation queues a recalculation for every tenant on the
// standard cron spec. Overlapping ticks are skipped.
func (s *Service) ScheduleRecalculation(ctx context.Context, spec string, recalc Recalculator) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() {
		s.enqueueRecalculations(ctx, recalc)
	}); err != nil {
		return err
	}
	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	slog.Info("attrition recalculation scheduled", "cron", spec)
	return nil
}

func (s *Service) enqueueRecalculations(ctx context.Context, recalc Recalculator) {
	tenants, err := s.listTenants(ctx)
	if err != nil {
		slog.Warn("recalculation scheduler tenant lookup failed", "err", err)
		return
	}
	for _, tenantID := range tenants {
		s.EnqueueRecalculation(tenantID, recalc)
	}
}

// EnqueueRecalculation hands one tenant's recalculation to the background
// worker. It reports false when the queue is full. The recalculation records
// its own job run.
func (s *Service) EnqueueRecalculation(tenantID string, recalc Recalculator) bool {
	return s.enqueue(job{
		Type:     attrition.JobRecalculate,
		TenantID: tenantID,
		Run: func(ctx context.Context) (any, error) {
			return recalc.Recalculate(ctx, tenantID)
		},
	})
}

func (s *Service) enqueue(j job) bool {
	select {
	case s.queue <- j:
		return true
	default:
		slog.Warn("job queue full", "jobType", j.Type, "tenantId", j.TenantID)
		return false
	}
}

// RunNow runs synchronously and records the run in job_runs.
func (s *Service) RunNow(ctx context.Context, jobType, tenantID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, TenantID: tenantID, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := j.Run(ctx); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "tenantId", j.TenantID, "err", err)
			}
		}
	}
}

// runJob records the run in job_runs. The bookkeeping statements outlive a
// cancelled caller so that an abandoned run still ends as failed.
func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	bookkeeping := context.WithoutCancel(ctx)
	runID := ""
	if err := s.DB.QueryRow(bookkeeping, `
    INSERT INTO job_runs (tenant_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id::text
  `, j.TenantID, j.Type, StatusRunning).Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		if details == nil {
			details = map[string]any{"error": err.Error()}
		}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(bookkeeping, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id::text = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) ListRuns(ctx context.Context, tenantID, jobType string, limit, offset int) ([]Run, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id::text, job_type, status, details_json, started_at, completed_at
    FROM job_runs
    WHERE tenant_id = $1 AND ($2 = '' OR job_type = $2)
    ORDER BY started_at DESC
    LIMIT $3 OFFSET $4
  `, tenantID, jobType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.JobType, &r.Status, &r.Details, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Service) GetRun(ctx context.Context, tenantID, runID string) (Run, error) {
	var r Run
	err := s.DB.QueryRow(ctx, `
    SELECT id::text, job_type, status, details_json, started_at, completed_at
    FROM job_runs
    WHERE tenant_id = $1 AND id::text = $2
  `, tenantID, runID).Scan(&r.ID, &r.JobType, &r.Status, &r.Details, &r.StartedAt, &r.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return r, err
}

func (s *Service) listTenants(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `SELECT id::text FROM tenants ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
