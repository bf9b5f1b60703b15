package attrition

import (
	"errors"
	"time"
)

const (
	MinScore = 0.0
	MaxScore = 100.0

	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"

	TrendNew     = "new"
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendStable  = "stable"

	RuleNewHire            = "new_hire"
	RuleEarlyTenure        = "early_tenure"
	RulePromotionStall     = "promotion_stall"
	RulePromotionLongStall = "promotion_long_stall"
	RuleLowPerformance     = "low_performance"
	RuleLowEngagement      = "low_engagement"
	RuleModerateEngagement = "moderate_engagement"
	RuleBelowPeerPay       = "below_peer_pay"
	RuleOvertime           = "overtime"
	RuleAbsence            = "absence"

	DefaultTopLimit = 10
	MaxTopLimit     = 100
	HistoryLimit    = 50
)

var ErrInvalidLevel = errors.New("level must be low, medium or high")

type Factor struct {
	Rule   string  `json:"rule"`
	Points float64 `json:"points"`
	Detail string  `json:"detail"`
}

type Assessment struct {
	EmployeeID string   `json:"employeeId"`
	Score      float64  `json:"riskScore"`
	Level      string   `json:"riskLevel"`
	Factors    []Factor `json:"factors"`
}

// HistoryPoint is one persisted recalculation result.
type HistoryPoint struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	RiskScore    float64   `json:"riskScore"`
	RiskLevel    string    `json:"riskLevel"`
	Factors      []Factor  `json:"factors,omitempty"`
	CalculatedAt time.Time `json:"calculatedAt"`
}

type RiskEntry struct {
	EmployeeID     string    `json:"employeeId"`
	Name           string    `json:"name"`
	DepartmentName string    `json:"departmentName"`
	JobTitle       string    `json:"jobTitle"`
	RiskScore      float64   `json:"riskScore"`
	RiskLevel      string    `json:"riskLevel"`
	PreviousScore  *float64  `json:"previousScore,omitempty"`
	Trend          string    `json:"trend"`
	CalculatedAt   time.Time `json:"calculatedAt"`
}

type EmployeeRisk struct {
	EmployeeID string         `json:"employeeId"`
	Name       string         `json:"name"`
	Current    Assessment     `json:"current"`
	Trend      string         `json:"trend"`
	History    []HistoryPoint `json:"history"`
}

type TopQuery struct {
	Limit        int
	Level        string
	DepartmentID string
}

type RecalcSummary struct {
	BatchID      string    `json:"batchId"`
	Processed    int       `json:"processed"`
	High         int       `json:"high"`
	Medium       int       `json:"medium"`
	Low          int       `json:"low"`
	Escalated    []string  `json:"escalated"`
	CalculatedAt time.Time `json:"calculatedAt"`
}
