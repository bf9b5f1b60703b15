package attrition

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"hrinsight/internal/domain/employees"
	"hrinsight/internal/domain/notifications"
)

const (
	JobRecalculate = "attrition_recalculate"
	EscalationRole = "HR"
)

type Service struct {
	Employees EmployeeReader
	Store     StoreAPI
	Rules     *RulesHolder
	Jobs      JobRunner
	Publisher Publisher
	Notifier  Notifier
	Observer  Observer
	Now       func() time.Time
}

func NewService(reader EmployeeReader, store StoreAPI, rules *RulesHolder) *Service {
	return &Service{Employees: reader, Store: store, Rules: rules, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Recalculate scores every active employee of the tenant and appends one
// history point each. When a job runner is configured the batch is recorded
// as a job run.
func (s *Service) Recalculate(ctx context.Context, tenantID string) (RecalcSummary, error) {
	var summary RecalcSummary
	var err error
	if s.Jobs == nil {
		summary, err = s.recalculate(ctx, tenantID)
	} else {
		_, err = s.Jobs.RunNow(ctx, JobRecalculate, tenantID, func(ctx context.Context) (any, error) {
			var runErr error
			summary, runErr = s.recalculate(ctx, tenantID)
			if runErr != nil {
				return map[string]any{"error": runErr.Error()}, runErr
			}
			return summary, nil
		})
	}
	if err != nil {
		s.reportFailure(ctx, tenantID, err)
	}
	return summary, err
}

func (s *Service) reportFailure(ctx context.Context, tenantID string, cause error) {
	if s.Notifier == nil || ctx.Err() != nil {
		return
	}
	body := "The attrition risk recalculation failed: " + cause.Error()
	if err := s.Notifier.NotifyRole(ctx, tenantID, EscalationRole, notifications.TypeAttritionRecalcFailed, "Attrition recalculation failed", body); err != nil {
		slog.Warn("attrition failure notify failed", "tenantId", tenantID, "err", err)
	}
}

func (s *Service) recalculate(ctx context.Context, tenantID string) (RecalcSummary, error) {
	started := time.Now()
	records, err := s.Employees.List(ctx, tenantID, employees.Filter{Status: employees.StatusActive})
	if err != nil {
		return RecalcSummary{}, fmt.Errorf("list employees: %w", err)
	}
	previous, err := s.Store.LatestLevels(ctx, tenantID)
	if err != nil {
		return RecalcSummary{}, fmt.Errorf("load latest levels: %w", err)
	}

	rules := s.Rules.Current()
	now := s.now()
	peers := BuildPeerStats(records)
	summary := RecalcSummary{
		BatchID:      uuid.NewString(),
		Escalated:    []string{},
		CalculatedAt: now,
	}

	assessments := make([]Assessment, 0, len(records))
	var escalations []Escalation
	for _, rec := range records {
		a := Score(rec, peers, rules, now)
		assessments = append(assessments, a)
		switch a.Level {
		case LevelHigh:
			summary.High++
		case LevelMedium:
			summary.Medium++
		default:
			summary.Low++
		}
		prevLevel, seen := previous[rec.ID]
		if a.Level == LevelHigh && (!seen || levelRank(prevLevel) < levelRank(LevelHigh)) {
			summary.Escalated = append(summary.Escalated, rec.ID)
			escalations = append(escalations, Escalation{
				BatchID:       summary.BatchID,
				TenantID:      tenantID,
				EmployeeID:    rec.ID,
				Name:          rec.FullName(),
				RiskScore:     a.Score,
				PreviousLevel: prevLevel,
				Factors:       a.Factors,
				CalculatedAt:  now,
			})
		}
	}
	summary.Processed = len(assessments)

	if err := s.Store.AppendBatch(ctx, tenantID, summary.BatchID, assessments, now); err != nil {
		return RecalcSummary{}, fmt.Errorf("append risk history: %w", err)
	}

	s.escalate(ctx, escalations)
	if s.Observer != nil {
		s.Observer.ObserveRecalculation(summary, time.Since(started))
	}
	return summary, nil
}

// escalate hands the whole batch of escalations to the publisher in one call
// and notifies HR once per employee. Neither failure fails the batch.
func (s *Service) escalate(ctx context.Context, escalations []Escalation) {
	if len(escalations) == 0 {
		return
	}
	if s.Publisher != nil {
		if err := s.Publisher.PublishEscalations(ctx, escalations); err != nil {
			slog.Warn("attrition escalation publish failed", "count", len(escalations), "err", err)
		}
	}
	if s.Notifier == nil {
		return
	}
	for _, evt := range escalations {
		title := "High attrition risk: " + evt.Name
		body := fmt.Sprintf("%s reached a risk score of %.0f.", evt.Name, evt.RiskScore)
		if err := s.Notifier.NotifyRole(ctx, evt.TenantID, EscalationRole, notifications.TypeAttritionRiskEscalated, title, body); err != nil {
			slog.Warn("attrition escalation notify failed", "employeeId", evt.EmployeeID, "err", err)
		}
	}
}

// Top lists the latest stored score per employee, highest first.
func (s *Service) Top(ctx context.Context, tenantID string, q TopQuery) ([]RiskEntry, error) {
	if q.Level != "" && !ValidLevel(q.Level) {
		return nil, ErrInvalidLevel
	}
	limit := NormalizeLimit(q.Limit)
	entries, err := s.Store.LatestScores(ctx, tenantID, q.DepartmentID)
	if err != nil {
		return nil, err
	}

	delta := s.Rules.Current().TrendDelta
	out := make([]RiskEntry, 0, len(entries))
	for _, entry := range entries {
		if q.Level != "" && entry.RiskLevel != q.Level {
			continue
		}
		entry.Trend = Trend(entry.RiskScore, entry.PreviousScore, delta)
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RiskScore != out[j].RiskScore {
			return out[i].RiskScore > out[j].RiskScore
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopLimit
	}
	if limit > MaxTopLimit {
		return MaxTopLimit
	}
	return limit
}

// EmployeeRisk scores one employee against the current rules and returns the
// stored history, newest first.
func (s *Service) EmployeeRisk(ctx context.Context, tenantID, employeeID string) (EmployeeRisk, error) {
	rec, err := s.Employees.Get(ctx, tenantID, employeeID)
	if err != nil {
		return EmployeeRisk{}, err
	}
	var peers PeerStats
	if rec.TitleKey() != "" {
		colleagues, err := s.Employees.List(ctx, tenantID, employees.Filter{Status: employees.StatusActive, JobTitle: rec.JobTitle})
		if err != nil {
			return EmployeeRisk{}, err
		}
		peers = BuildPeerStats(colleagues)
	}
	history, err := s.Store.History(ctx, tenantID, employeeID, HistoryLimit)
	if err != nil {
		return EmployeeRisk{}, err
	}
	if history == nil {
		history = []HistoryPoint{}
	}

	rules := s.Rules.Current()
	current := Score(rec, peers, rules, s.now())
	var previous *float64
	if len(history) > 0 {
		previous = &history[0].RiskScore
	}
	return EmployeeRisk{
		EmployeeID: rec.ID,
		Name:       rec.FullName(),
		Current:    current,
		Trend:      Trend(current.Score, previous, rules.TrendDelta),
		History:    history,
	}, nil
}
