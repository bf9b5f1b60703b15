package employees

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	cryptoutil "hrinsight/internal/platform/crypto"
	"hrinsight/internal/platform/querier"
)

var recordColumns = []string{
	"e.id::text",
	"COALESCE(e.employee_number, '')",
	"e.first_name",
	"e.last_name",
	"e.email",
	"COALESCE(e.department_id::text, '')",
	"COALESCE(d.name, '')",
	"COALESCE(e.job_title, '')",
	"COALESCE(e.gender, '')",
	"COALESCE(e.education_level, '')",
	"e.salary",
	"e.salary_enc",
	"COALESCE(e.currency, '')",
	"e.start_date",
	"e.last_promotion_date",
	"e.performance_rating",
	"e.potential_rating",
	"e.engagement_score",
	"COALESCE(e.overtime_hours, 0)",
	"COALESCE(e.absence_days, 0)",
	"COALESCE(e.manager_id::text, '')",
	"e.status",
}

type Store struct {
	DB     querier.Querier
	Crypto *cryptoutil.Service
}

func NewStore(db querier.Querier, crypto *cryptoutil.Service) *Store {
	return &Store{DB: db, Crypto: crypto}
}

func buildListQuery(tenantID string, filter Filter) (string, []any, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(recordColumns...).
		From("employees e").
		LeftJoin("departments d ON d.id = e.department_id").
		Where(sq.Eq{"e.tenant_id": tenantID})

	status := filter.Status
	if status == "" {
		status = StatusActive
	}
	if status != StatusAll {
		builder = builder.Where(sq.Eq{"e.status": status})
	}
	if filter.DepartmentID != "" {
		builder = builder.Where(sq.Eq{"e.department_id::text": filter.DepartmentID})
	}
	if title := NormalizeTitle(filter.JobTitle); title != "" {
		builder = builder.Where(sq.Expr("lower(trim(e.job_title)) = ?", title))
	}
	if len(filter.IDs) > 0 {
		builder = builder.Where(sq.Eq{"e.id::text": filter.IDs})
	}
	return builder.OrderBy("e.last_name", "e.first_name", "e.id").ToSql()
}

func (s *Store) List(ctx context.Context, tenantID string, filter Filter) ([]Record, error) {
	query, args, err := buildListQuery(tenantID, filter)
	if err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var salaryEnc []byte
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeNumber, &rec.FirstName, &rec.LastName, &rec.Email,
			&rec.DepartmentID, &rec.DepartmentName, &rec.JobTitle, &rec.Gender, &rec.EducationLevel,
			&rec.Salary, &salaryEnc, &rec.Currency,
			&rec.HireDate, &rec.LastPromotionDate,
			&rec.PerformanceRating, &rec.PotentialRating, &rec.EngagementScore,
			&rec.OvertimeHours, &rec.AbsenceDays, &rec.ManagerID, &rec.Status,
		); err != nil {
			return nil, err
		}
		rec.Salary = s.Crypto.FloatOrPlain(salaryEnc, rec.Salary)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, tenantID, employeeID string) (Record, error) {
	records, err := s.List(ctx, tenantID, Filter{Status: StatusAll, IDs: []string{employeeID}})
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, ErrEmployeeNotFound
	}
	return records[0], nil
}
