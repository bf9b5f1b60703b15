package employees

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusActive = "active"
	StatusAll    = "all"
)

var ErrEmployeeNotFound = errors.New("employee not found")

// Record is the read-only view of an employee that the analytics consume.
// Optional attributes are pointers so that a missing value never counts as
// zero in a score.
type Record struct {
	ID                string     `json:"id"`
	EmployeeNumber    string     `json:"employeeNumber"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Email             string     `json:"email"`
	DepartmentID      string     `json:"departmentId"`
	DepartmentName    string     `json:"departmentName"`
	JobTitle          string     `json:"jobTitle"`
	Gender            string     `json:"gender"`
	EducationLevel    string     `json:"educationLevel"`
	Salary            *float64   `json:"salary,omitempty"`
	Currency          string     `json:"currency"`
	HireDate          *time.Time `json:"hireDate,omitempty"`
	LastPromotionDate *time.Time `json:"lastPromotionDate,omitempty"`
	PerformanceRating *float64   `json:"performanceRating,omitempty"`
	PotentialRating   *float64   `json:"potentialRating,omitempty"`
	EngagementScore   *float64   `json:"engagementScore,omitempty"`
	OvertimeHours     float64    `json:"overtimeHours"`
	AbsenceDays       float64    `json:"absenceDays"`
	ManagerID         string     `json:"managerId"`
	Status            string     `json:"status"`
}

func (r Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// SalaryValue returns the salary and whether it is usable for comparisons.
func (r Record) SalaryValue() (float64, bool) {
	if r.Salary == nil || *r.Salary <= 0 {
		return 0, false
	}
	return *r.Salary, true
}

// TitleKey is the job title used to compare salary peers: trimmed and
// case-folded, matching the JobTitle filter of the store.
func (r Record) TitleKey() string {
	return NormalizeTitle(r.JobTitle)
}

func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// DepartmentKey prefers the department name and falls back to its id.
func (r Record) DepartmentKey() string {
	if name := strings.TrimSpace(r.DepartmentName); name != "" {
		return name
	}
	return strings.TrimSpace(r.DepartmentID)
}

type Filter struct {
	Status       string
	DepartmentID string
	JobTitle     string
	IDs          []string
}
