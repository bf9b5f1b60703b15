package sentiment

import (
	"context"
	"sort"

	"hrinsight/internal/stats"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// ReviewSentiment classifies stored review comments and averages them per
// employee.
func (s *Service) ReviewSentiment(ctx context.Context, tenantID string, filter Filter) (Report, error) {
	comments, err := s.Store.ListComments(ctx, tenantID, filter)
	if err != nil {
		return Report{}, err
	}
	return Summarize(comments), nil
}

func Summarize(comments []Comment) Report {
	report := Report{
		Comments:  make([]CommentResult, 0, len(comments)),
		Employees: []EmployeeSummary{},
	}
	type acc struct {
		name  string
		sum   float64
		count int
	}
	perEmployee := map[string]*acc{}
	for _, c := range comments {
		res := Classify(c.Text)
		report.Comments = append(report.Comments, CommentResult{Comment: c, Sentiment: res})
		switch res.Label {
		case LabelPositive:
			report.Totals.Positive++
		case LabelNegative:
			report.Totals.Negative++
		default:
			report.Totals.Neutral++
		}
		a := perEmployee[c.EmployeeID]
		if a == nil {
			a = &acc{name: c.EmployeeName}
			perEmployee[c.EmployeeID] = a
		}
		a.sum += res.Comparative
		a.count++
	}
	for id, a := range perEmployee {
		avg := stats.Round(a.sum/float64(a.count), 4)
		report.Employees = append(report.Employees, EmployeeSummary{
			EmployeeID:         id,
			EmployeeName:       a.name,
			Comments:           a.count,
			AverageComparative: avg,
			Label:              labelFor(avg),
		})
	}
	sort.Slice(report.Employees, func(i, j int) bool {
		if report.Employees[i].AverageComparative != report.Employees[j].AverageComparative {
			return report.Employees[i].AverageComparative < report.Employees[j].AverageComparative
		}
		return report.Employees[i].EmployeeID < report.Employees[j].EmployeeID
	})
	return report
}

func labelFor(comparative float64) string {
	switch {
	case comparative >= labelCutoff:
		return LabelPositive
	case comparative <= -labelCutoff:
		return LabelNegative
	default:
		return LabelNeutral
	}
}
