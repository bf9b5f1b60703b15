package salary

import (
	"math"
	"sort"
	"strings"

	"hrinsight/internal/domain/employees"
	"hrinsight/internal/stats"
)

// groupKey returns the grouping key and the label reported for it. Job
// titles group case-insensitively, like attrition peer pay.
func groupKey(rec employees.Record, groupBy string) (key, label string) {
	switch groupBy {
	case GroupByDepartment:
		key = rec.DepartmentKey()
		return key, key
	default:
		return rec.TitleKey(), strings.TrimSpace(rec.JobTitle)
	}
}

// NormalizeGroupBy maps an empty value to the job title grouping.
func NormalizeGroupBy(groupBy string) (string, error) {
	switch groupBy {
	case "", GroupByJobTitle:
		return GroupByJobTitle, nil
	case GroupByDepartment:
		return GroupByDepartment, nil
	}
	return "", ErrUnknownGroupBy
}

func ValidThreshold(threshold float64) bool {
	return threshold > 0 && threshold <= 100
}

// DetectWarnings flags salaries that deviate from their group mean by more
// than thresholdPercent.
func DetectWarnings(records []employees.Record, groupBy string, thresholdPercent float64) ([]Warning, error) {
	groupBy, err := NormalizeGroupBy(groupBy)
	if err != nil {
		return nil, err
	}
	if !ValidThreshold(thresholdPercent) {
		return nil, ErrInvalidThreshold
	}

	groups := map[string][]employees.Record{}
	labels := map[string]string{}
	for _, rec := range records {
		if _, ok := rec.SalaryValue(); !ok {
			continue
		}
		key, label := groupKey(rec, groupBy)
		if key == "" {
			continue
		}
		if _, seen := labels[key]; !seen {
			labels[key] = label
		}
		groups[key] = append(groups[key], rec)
	}

	out := []Warning{}
	for key, members := range groups {
		if len(members) < 2 {
			continue
		}
		values := make([]float64, 0, len(members))
		for _, m := range members {
			v, _ := m.SalaryValue()
			values = append(values, v)
		}
		mean := stats.Describe(values).Mean
		for i, m := range members {
			dev := stats.PercentDiff(values[i], mean)
			if math.Abs(dev) <= thresholdPercent {
				continue
			}
			w := Warning{
				EmployeeID:       m.ID,
				Name:             m.FullName(),
				GroupBy:          groupBy,
				GroupKey:         labels[key],
				Salary:           values[i],
				GroupMean:        stats.Round(mean, 2),
				GroupSize:        len(members),
				DeviationPercent: stats.Round(dev, 2),
				Direction:        DirectionAbove,
				Severity:         SeverityMedium,
			}
			if dev < 0 {
				w.Direction = DirectionBelow
			}
			if math.Abs(dev) >= 2*thresholdPercent {
				w.Severity = SeverityHigh
			}
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := math.Abs(out[i].DeviationPercent), math.Abs(out[j].DeviationPercent)
		if di != dj {
			return di > dj
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}
