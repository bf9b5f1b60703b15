package salary

import (
	"context"
	"time"

	"hrinsight/internal/domain/employees"
)

type EmployeeReader interface {
	List(ctx context.Context, tenantID string, filter employees.Filter) ([]employees.Record, error)
}

type Service struct {
	Employees        EmployeeReader
	DefaultThreshold float64
	Now              func() time.Time
}

func NewService(reader EmployeeReader, defaultThreshold float64) *Service {
	if !ValidThreshold(defaultThreshold) {
		defaultThreshold = DefaultWarningThreshold
	}
	return &Service{Employees: reader, DefaultThreshold: defaultThreshold, Now: time.Now}
}

func (s *Service) Bias(ctx context.Context, tenantID, attribute string) (BiasReport, error) {
	if !ValidAttribute(attribute) {
		return BiasReport{}, ErrUnknownAttribute
	}
	records, err := s.Employees.List(ctx, tenantID, employees.Filter{Status: employees.StatusActive})
	if err != nil {
		return BiasReport{}, err
	}
	return AnalyzeBias(records, attribute, s.Now().UTC())
}

// Warnings uses the configured threshold when threshold is zero.
func (s *Service) Warnings(ctx context.Context, tenantID, groupBy string, threshold float64) ([]Warning, error) {
	if threshold == 0 {
		threshold = s.DefaultThreshold
	}
	if !ValidThreshold(threshold) {
		return nil, ErrInvalidThreshold
	}
	if _, err := NormalizeGroupBy(groupBy); err != nil {
		return nil, err
	}
	records, err := s.Employees.List(ctx, tenantID, employees.Filter{Status: employees.StatusActive})
	if err != nil {
		return nil, err
	}
	return DetectWarnings(records, groupBy, threshold)
}
