package audit

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"

	"hrinsight/internal/platform/querier"
)

const (
	ActionAttritionRecalculate = "attrition.recalculate"
	ActionAttritionReport      = "attrition.report"
	ActionSalaryBiasView       = "salary.bias.view"
	ActionSalaryWarningsView   = "salary.warnings.view"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Details    json.RawMessage `json:"details,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	ActorUser  string
}

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (s *Service) Record(ctx context.Context, tenantID, actorID, action, entityType, entityID, requestID, ip string, details any) error {
	var detailsJSON []byte
	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			return err
		}
		detailsJSON = payload
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (tenant_id, actor_user_id, action, entity_type, entity_id, details_json, request_id, ip)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, tenantID, nullIfEmpty(actorID), action, entityType, entityID, detailsJSON, requestID, ip)
	return err
}

func (s *Service) Count(ctx context.Context, tenantID string, filter Filter) (int, error) {
	query, args, err := applyFilter(psql.Select("COUNT(1)"), tenantID, filter).ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, tenantID string, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	query, args, err := buildListQuery(tenantID, filter, includeDetails, limit, offset)
	if err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var evt Event
		dest := []any{&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.CreatedAt}
		if includeDetails {
			dest = append(dest, &evt.Details)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func buildListQuery(tenantID string, filter Filter, includeDetails bool, limit, offset int) (string, []any, error) {
	cols := []string{"id::text", "COALESCE(actor_user_id::text, '')", "action", "entity_type", "COALESCE(entity_id, '')",
		"COALESCE(request_id, '')", "COALESCE(ip, '')", "created_at"}
	if includeDetails {
		cols = append(cols, "details_json")
	}
	return applyFilter(psql.Select(cols...), tenantID, filter).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
}

func applyFilter(b sq.SelectBuilder, tenantID string, filter Filter) sq.SelectBuilder {
	b = b.From("audit_events").Where(sq.Eq{"tenant_id": tenantID})
	if filter.Action != "" {
		b = b.Where(sq.Eq{"action": filter.Action})
	}
	if filter.EntityType != "" {
		b = b.Where(sq.Eq{"entity_type": filter.EntityType})
	}
	if filter.ActorUser != "" {
		b = b.Where(sq.Eq{"actor_user_id::text": filter.ActorUser})
	}
	return b
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
