package sentiment

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"hrinsight/internal/platform/querier"
)

type StoreAPI interface {
	ListComments(ctx context.Context, tenantID string, filter Filter) ([]Comment, error)
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func buildCommentsQuery(tenantID string, filter Filter) (string, []any, error) {
	builder := psql.
		Select("r.id::text", "r.cycle_id::text", "r.employee_id::text", "e.first_name || ' ' || e.last_name",
			"r.respondent_role", "r.comment", "r.created_at").
		From("review_responses r").
		Join("employees e ON e.id = r.employee_id").
		Where(sq.Eq{"r.tenant_id": tenantID}).
		Where("COALESCE(r.comment, '') <> ''")
	if filter.CycleID != "" {
		builder = builder.Where(sq.Eq{"r.cycle_id::text": filter.CycleID})
	}
	if filter.EmployeeID != "" {
		builder = builder.Where(sq.Eq{"r.employee_id::text": filter.EmployeeID})
	}
	return builder.OrderBy("r.created_at DESC", "r.id").ToSql()
}

func (s *Store) ListComments(ctx context.Context, tenantID string, filter Filter) ([]Comment, error) {
	query, args, err := buildCommentsQuery(tenantID, filter)
	if err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.CycleID, &c.EmployeeID, &c.EmployeeName, &c.RespondentRole, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
