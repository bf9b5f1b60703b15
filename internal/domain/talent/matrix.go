// Package talent places employees on the performance/potential nine-box.
package talent

import (
	"context"
	"sort"

	"hrinsight/internal/domain/employees"
)

const (
	BandLow    = "low"
	BandMedium = "medium"
	BandHigh   = "high"

	lowCutoff    = 2.5
	mediumCutoff = 3.5
)

// boxNames is indexed by [performance][potential].
var boxNames = map[string]map[string]string{
	BandHigh: {
		BandHigh:   "Star",
		BandMedium: "High Performer",
		BandLow:    "Trusted Professional",
	},
	BandMedium: {
		BandHigh:   "High Potential",
		BandMedium: "Core Player",
		BandLow:    "Effective Employee",
	},
	BandLow: {
		BandHigh:   "Rough Diamond",
		BandMedium: "Inconsistent Player",
		BandLow:    "Underperformer",
	},
}

var bandOrder = []string{BandHigh, BandMedium, BandLow}

type Placement struct {
	EmployeeID     string  `json:"employeeId"`
	Name           string  `json:"name"`
	DepartmentName string  `json:"departmentName"`
	Performance    float64 `json:"performance"`
	Potential      float64 `json:"potential"`
}

type Box struct {
	Name            string      `json:"name"`
	PerformanceBand string      `json:"performanceBand"`
	PotentialBand   string      `json:"potentialBand"`
	Count           int         `json:"count"`
	Employees       []Placement `json:"employees"`
}

type Matrix struct {
	Boxes   []Box    `json:"boxes"`
	Rated   int      `json:"rated"`
	Unrated int      `json:"unrated"`
	Missing []string `json:"unratedEmployeeIds"`
}

func Band(rating float64) string {
	switch {
	case rating < lowCutoff:
		return BandLow
	case rating < mediumCutoff:
		return BandMedium
	default:
		return BandHigh
	}
}

func BoxName(performanceBand, potentialBand string) string {
	return boxNames[performanceBand][potentialBand]
}

// Build returns all nine boxes, high performance and high potential first.
func Build(records []employees.Record) Matrix {
	index := map[string]int{}
	m := Matrix{Missing: []string{}}
	for _, perf := range bandOrder {
		for _, pot := range bandOrder {
			index[perf+"/"+pot] = len(m.Boxes)
			m.Boxes = append(m.Boxes, Box{
				Name:            BoxName(perf, pot),
				PerformanceBand: perf,
				PotentialBand:   pot,
				Employees:       []Placement{},
			})
		}
	}

	for _, rec := range records {
		if rec.PerformanceRating == nil || rec.PotentialRating == nil {
			m.Unrated++
			m.Missing = append(m.Missing, rec.ID)
			continue
		}
		perf, pot := *rec.PerformanceRating, *rec.PotentialRating
		box := &m.Boxes[index[Band(perf)+"/"+Band(pot)]]
		box.Employees = append(box.Employees, Placement{
			EmployeeID:     rec.ID,
			Name:           rec.FullName(),
			DepartmentName: rec.DepartmentName,
			Performance:    perf,
			Potential:      pot,
		})
		box.Count++
		m.Rated++
	}
	for i := range m.Boxes {
		emps := m.Boxes[i].Employees
		sort.Slice(emps, func(a, b int) bool {
			if emps[a].Performance+emps[a].Potential != emps[b].Performance+emps[b].Potential {
				return emps[a].Performance+emps[a].Potential > emps[b].Performance+emps[b].Potential
			}
			return emps[a].Name < emps[b].Name
		})
	}
	return m
}

type EmployeeReader interface {
	List(ctx context.Context, tenantID string, filter employees.Filter) ([]employees.Record, error)
}

type Service struct {
	Employees EmployeeReader
}

func NewService(reader EmployeeReader) *Service {
	return &Service{Employees: reader}
}

func (s *Service) Matrix(ctx context.Context, tenantID, departmentID string) (Matrix, error) {
	records, err := s.Employees.List(ctx, tenantID, employees.Filter{Status: employees.StatusActive, DepartmentID: departmentID})
	if err != nil {
		return Matrix{}, err
	}
	return Build(records), nil
}
