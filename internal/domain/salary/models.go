package salary

import (
	"errors"
	"time"
)

const (
	AttributeGender     = "gender"
	AttributeDepartment = "department"
	AttributeEducation  = "education"

	GroupByJobTitle   = "jobTitle"
	GroupByDepartment = "department"

	Unspecified = "unspecified"

	SeverityInsufficient = "insufficient_data"
	SeverityNone         = "none"
	SeverityLow          = "low"
	SeverityMedium       = "medium"
	SeverityHigh         = "high"

	DirectionAbove = "above"
	DirectionBelow = "below"

	DefaultWarningThreshold = 20.0
)

var (
	ErrUnknownAttribute = errors.New("attribute must be gender, department or education")
	ErrUnknownGroupBy   = errors.New("groupBy must be jobTitle or department")
	ErrInvalidThreshold = errors.New("threshold must be greater than 0 and at most 100")
)

// EducationOrdinal ranks education levels for correlation.
var EducationOrdinal = map[string]int{
	"high_school": 1,
	"associate":   2,
	"bachelor":    3,
	"master":      4,
	"doctorate":   5,
}

type GroupStats struct {
	Key    string  `json:"key"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Comparison holds the Welch t-test between the highest and lowest paid
// groups. TStatistic is nil when both groups are constant and differ, since
// the statistic is infinite.
type Comparison struct {
	Higher           string   `json:"higher"`
	Lower            string   `json:"lower"`
	GapPercent       float64  `json:"gapPercent"`
	TStatistic       *float64 `json:"tStatistic"`
	DegreesOfFreedom float64  `json:"degreesOfFreedom"`
	PValue           float64  `json:"pValue"`
}

type BiasReport struct {
	Attribute    string       `json:"attribute"`
	OverallMean  float64      `json:"overallMean"`
	OverallCount int          `json:"overallCount"`
	Groups       []GroupStats `json:"groups"`
	Comparison   *Comparison  `json:"comparison,omitempty"`
	Correlation  *float64     `json:"correlation,omitempty"`
	Severity     string       `json:"severity"`
	GeneratedAt  time.Time    `json:"generatedAt"`
}

type Warning struct {
	EmployeeID       string  `json:"employeeId"`
	Name             string  `json:"name"`
	GroupBy          string  `json:"groupBy"`
	GroupKey         string  `json:"groupKey"`
	Salary           float64 `json:"salary"`
	GroupMean        float64 `json:"groupMean"`
	GroupSize        int     `json:"groupSize"`
	DeviationPercent float64 `json:"deviationPercent"`
	Direction        string  `json:"direction"`
	Severity         string  `json:"severity"`
}
