package skills

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hrinsight/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListProfiles(ctx context.Context, tenantID string) ([]JobProfile, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id::text, name, COALESCE(job_title, '')
    FROM job_profiles
    WHERE tenant_id = $1
    ORDER BY name
  `, tenantID)
	if err != nil {
		return nil, err
	}
	var out []JobProfile
	for rows.Next() {
		var p JobProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.JobTitle); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		reqs, err := s.requirements(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Requirements = reqs
	}
	return out, nil
}

func (s *Store) GetProfile(ctx context.Context, tenantID, profileID string) (JobProfile, error) {
	var p JobProfile
	err := s.DB.QueryRow(ctx, `
    SELECT id::text, name, COALESCE(job_title, '')
    FROM job_profiles
    WHERE tenant_id = $1 AND id::text = $2
  `, tenantID, profileID).Scan(&p.ID, &p.Name, &p.JobTitle)
	if errors.Is(err, pgx.ErrNoRows) {
		return JobProfile{}, ErrProfileNotFound
	}
	if err != nil {
		return JobProfile{}, err
	}
	p.Requirements, err = s.requirements(ctx, p.ID)
	return p, err
}

func (s *Store) requirements(ctx context.Context, profileID string) ([]Requirement, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT skill, required_level, COALESCE(weight, 1), is_mandatory
    FROM job_profile_skills
    WHERE profile_id::text = $1
    ORDER BY skill
  `, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Requirement{}
	for rows.Next() {
		var r Requirement
		if err := rows.Scan(&r.Skill, &r.RequiredLevel, &r.Weight, &r.IsMandatory); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) SkillLevels(ctx context.Context, tenantID string, employeeIDs []string) (map[string]Levels, error) {
	out := map[string]Levels{}
	if len(employeeIDs) == 0 {
		return out, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id::text, skill, level
    FROM employee_skills
    WHERE tenant_id = $1 AND employee_id::text = ANY($2)
  `, tenantID, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var employeeID, skill string
		var level float64
		if err := rows.Scan(&employeeID, &skill, &level); err != nil {
			return nil, err
		}
		if out[employeeID] == nil {
			out[employeeID] = Levels{}
		}
		out[employeeID][NormalizeSkill(skill)] = level
	}
	return out, rows.Err()
}
