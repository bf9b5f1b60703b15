package skills

import (
	"context"

	"hrinsight/internal/domain/employees"
)

type StoreAPI interface {
	ListProfiles(ctx context.Context, tenantID string) ([]JobProfile, error)
	GetProfile(ctx context.Context, tenantID, profileID string) (JobProfile, error)
	SkillLevels(ctx context.Context, tenantID string, employeeIDs []string) (map[string]Levels, error)
}

type EmployeeReader interface {
	List(ctx context.Context, tenantID string, filter employees.Filter) ([]employees.Record, error)
	Get(ctx context.Context, tenantID, employeeID string) (employees.Record, error)
}
