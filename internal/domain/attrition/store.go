package attrition

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"hrinsight/internal/platform/querier"
)

type Store struct {
	DB querier.TxBeginner
}

func NewStore(db querier.TxBeginner) *Store {
	return &Store{DB: db}
}

func (s *Store) AppendBatch(ctx context.Context, tenantID, batchID string, assessments []Assessment, calculatedAt time.Time) error {
	if len(assessments) == 0 {
		return nil
	}
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	for _, a := range assessments {
		factorsJSON, err := json.Marshal(a.Factors)
		if err != nil {
			return err
		}
		batch.Queue(`
      INSERT INTO attrition_risk_history (tenant_id, employee_id, batch_id, risk_score, risk_level, factors_json, calculated_at)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, tenantID, a.EmployeeID, batchID, a.Score, a.Level, factorsJSON, calculatedAt)
	}
	results := tx.SendBatch(ctx, batch)
	for range assessments {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	if err := results.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) LatestLevels(ctx context.Context, tenantID string) (map[string]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT ON (employee_id) employee_id::text, risk_level
    FROM attrition_risk_history
    WHERE tenant_id = $1
    ORDER BY employee_id, calculated_at DESC, id DESC
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var employeeID, level string
		if err := rows.Scan(&employeeID, &level); err != nil {
			return nil, err
		}
		out[employeeID] = level
	}
	return out, rows.Err()
}

func (s *Store) LatestScores(ctx context.Context, tenantID, departmentID string) ([]RiskEntry, error) {
	query := `
    WITH ranked AS (
      SELECT h.employee_id, h.risk_score, h.risk_level, h.calculated_at,
             ROW_NUMBER() OVER (PARTITION BY h.employee_id ORDER BY h.calculated_at DESC, h.id DESC) AS rn
      FROM attrition_risk_history h
      WHERE h.tenant_id = $1
    )
    SELECT e.id::text, e.first_name, e.last_name, COALESCE(d.name, ''), COALESCE(e.job_title, ''),
           cur.risk_score, cur.risk_level, cur.calculated_at, prev.risk_score
    FROM ranked cur
    JOIN employees e ON e.id = cur.employee_id AND e.tenant_id = $1
    LEFT JOIN departments d ON d.id = e.department_id
    LEFT JOIN ranked prev ON prev.employee_id = cur.employee_id AND prev.rn = 2
    WHERE cur.rn = 1 AND e.status = 'active'
  `
	args := []any{tenantID}
	if departmentID != "" {
		query += " AND e.department_id::text = $2"
		args = append(args, departmentID)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RiskEntry
	for rows.Next() {
		var entry RiskEntry
		var first, last string
		if err := rows.Scan(&entry.EmployeeID, &first, &last, &entry.DepartmentName, &entry.JobTitle,
			&entry.RiskScore, &entry.RiskLevel, &entry.CalculatedAt, &entry.PreviousScore); err != nil {
			return nil, err
		}
		entry.Name = first + " " + last
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *Store) History(ctx context.Context, tenantID, employeeID string, limit int) ([]HistoryPoint, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id::text, employee_id::text, risk_score, risk_level, factors_json, calculated_at
    FROM attrition_risk_history
    WHERE tenant_id = $1 AND employee_id::text = $2
    ORDER BY calculated_at DESC, id DESC
    LIMIT $3
  `, tenantID, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryPoint
	for rows.Next() {
		var point HistoryPoint
		var factorsJSON []byte
		if err := rows.Scan(&point.ID, &point.EmployeeID, &point.RiskScore, &point.RiskLevel, &factorsJSON, &point.CalculatedAt); err != nil {
			return nil, err
		}
		if len(factorsJSON) > 0 {
			if err := json.Unmarshal(factorsJSON, &point.Factors); err != nil {
				return nil, errors.Join(errors.New("decode risk factors"), err)
			}
		}
		out = append(out, point)
	}
	return out, rows.Err()
}
