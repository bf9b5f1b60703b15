package attrition

import (
	"context"
	"time"

	"hrinsight/internal/domain/employees"
)

type EmployeeReader interface {
	List(ctx context.Context, tenantID string, filter employees.Filter) ([]employees.Record, error)
	Get(ctx context.Context, tenantID, employeeID string) (employees.Record, error)
}

type StoreAPI interface {
	AppendBatch(ctx context.Context, tenantID, batchID string, assessments []Assessment, calculatedAt time.Time) error
	LatestLevels(ctx context.Context, tenantID string) (map[string]string, error)
	LatestScores(ctx context.Context, tenantID, departmentID string) ([]RiskEntry, error)
	History(ctx context.Context, tenantID, employeeID string, limit int) ([]HistoryPoint, error)
}

// JobRunner records a batch as a job run.
type JobRunner interface {
	RunNow(ctx context.Context, jobType, tenantID string, run func(context.Context) (any, error)) (any, error)
}

// Escalation is emitted for every employee whose level rose to high.
type Escalation struct {
	BatchID       string    `json:"batchId"`
	TenantID      string    `json:"tenantId"`
	EmployeeID    string    `json:"employeeId"`
	Name          string    `json:"name"`
	RiskScore     float64   `json:"riskScore"`
	PreviousLevel string    `json:"previousLevel,omitempty"`
	Factors       []Factor  `json:"factors"`
	CalculatedAt  time.Time `json:"calculatedAt"`
}

// Publisher delivers the escalations of one batch together.
type Publisher interface {
	PublishEscalations(ctx context.Context, escalations []Escalation) error
}

type Notifier interface {
	NotifyRole(ctx context.Context, tenantID, role, ntype, title, body string) error
}

// Observer receives batch outcomes, typically for metrics.
type Observer interface {
	ObserveRecalculation(summary RecalcSummary, elapsed time.Duration)
}
