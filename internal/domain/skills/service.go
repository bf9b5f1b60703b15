package skills

import (
	"context"

	"hrinsight/internal/domain/employees"
)

type Service struct {
	Store     StoreAPI
	Employees EmployeeReader
}

func NewService(store StoreAPI, reader EmployeeReader) *Service {
	return &Service{Store: store, Employees: reader}
}

func (s *Service) Profiles(ctx context.Context, tenantID string) ([]JobProfile, error) {
	profiles, err := s.Store.ListProfiles(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []JobProfile{}
	}
	return profiles, nil
}

func (s *Service) EmployeeGap(ctx context.Context, tenantID, employeeID, profileID string) (Analysis, error) {
	if profileID == "" {
		return Analysis{}, ErrProfileRequired
	}
	rec, err := s.Employees.Get(ctx, tenantID, employeeID)
	if err != nil {
		return Analysis{}, err
	}
	profile, err := s.Store.GetProfile(ctx, tenantID, profileID)
	if err != nil {
		return Analysis{}, err
	}
	levels, err := s.Store.SkillLevels(ctx, tenantID, []string{rec.ID})
	if err != nil {
		return Analysis{}, err
	}
	analysis := Individual(profile, levels[rec.ID])
	analysis.EmployeeID = rec.ID
	analysis.Name = rec.FullName()
	return analysis, nil
}

// TeamRequest selects team members by id or by department. Explicit ids win.
type TeamRequest struct {
	ProfileID    string   `json:"profileId"`
	EmployeeIDs  []string `json:"employeeIds"`
	DepartmentID string   `json:"departmentId"`
}

func (s *Service) TeamGap(ctx context.Context, tenantID string, req TeamRequest) (Analysis, error) {
	if req.ProfileID == "" {
		return Analysis{}, ErrProfileRequired
	}
	filter := employees.Filter{Status: employees.StatusActive}
	switch {
	case len(req.EmployeeIDs) > 0:
		filter.IDs = req.EmployeeIDs
	case req.DepartmentID != "":
		filter.DepartmentID = req.DepartmentID
	default:
		return Analysis{}, ErrEmptyTeam
	}
	profile, err := s.Store.GetProfile(ctx, tenantID, req.ProfileID)
	if err != nil {
		return Analysis{}, err
	}
	records, err := s.Employees.List(ctx, tenantID, filter)
	if err != nil {
		return Analysis{}, err
	}
	if len(records) == 0 {
		return Analysis{}, ErrEmptyTeam
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	levels, err := s.Store.SkillLevels(ctx, tenantID, ids)
	if err != nil {
		return Analysis{}, err
	}
	members := make([]Member, 0, len(records))
	for _, rec := range records {
		members = append(members, Member{EmployeeID: rec.ID, Name: rec.FullName(), Levels: levels[rec.ID]})
	}
	return Team(profile, members)
}
