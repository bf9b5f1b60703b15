package sentiment

import "time"

type Comment struct {
	ID             string    `json:"id"`
	CycleID        string    `json:"cycleId"`
	EmployeeID     string    `json:"employeeId"`
	EmployeeName   string    `json:"employeeName"`
	RespondentRole string    `json:"respondentRole"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Filter struct {
	CycleID    string
	EmployeeID string
}

type CommentResult struct {
	Comment
	Sentiment Result `json:"sentiment"`
}

type EmployeeSummary struct {
	EmployeeID         string  `json:"employeeId"`
	EmployeeName       string  `json:"employeeName"`
	Comments           int     `json:"comments"`
	AverageComparative float64 `json:"averageComparative"`
	Label              string  `json:"label"`
}

type Totals struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type Report struct {
	Comments  []CommentResult   `json:"comments"`
	Totals    Totals            `json:"totals"`
	Employees []EmployeeSummary `json:"employees"`
}
