package salary

import (
	"math"
	"sort"
	"strings"
	"time"

	"hrinsight/internal/domain/employees"
	"hrinsight/internal/stats"
)

func ValidAttribute(attribute string) bool {
	switch attribute {
	case AttributeGender, AttributeDepartment, AttributeEducation:
		return true
	}
	return false
}

func attributeKey(rec employees.Record, attribute string) string {
	var key string
	switch attribute {
	case AttributeGender:
		key = strings.ToLower(strings.TrimSpace(rec.Gender))
	case AttributeDepartment:
		key = rec.DepartmentKey()
	case AttributeEducation:
		key = strings.ToLower(strings.TrimSpace(rec.EducationLevel))
	}
	if key == "" {
		return Unspecified
	}
	return key
}

// AnalyzeBias groups salaried employees by attribute and tests the gap
// between the best and worst paid groups.
func AnalyzeBias(records []employees.Record, attribute string, now time.Time) (BiasReport, error) {
	if !ValidAttribute(attribute) {
		return BiasReport{}, ErrUnknownAttribute
	}

	samples := map[string][]float64{}
	var all, ordinals, ordinalSalaries []float64
	for _, rec := range records {
		salary, ok := rec.SalaryValue()
		if !ok {
			continue
		}
		key := attributeKey(rec, attribute)
		samples[key] = append(samples[key], salary)
		all = append(all, salary)
		if attribute == AttributeEducation {
			if rank, ok := EducationOrdinal[key]; ok {
				ordinals = append(ordinals, float64(rank))
				ordinalSalaries = append(ordinalSalaries, salary)
			}
		}
	}

	report := BiasReport{
		Attribute:    attribute,
		OverallCount: len(all),
		Groups:       make([]GroupStats, 0, len(samples)),
		Severity:     SeverityInsufficient,
		GeneratedAt:  now,
	}
	if len(all) > 0 {
		report.OverallMean = stats.Round(stats.Describe(all).Mean, 2)
	}
	for key, values := range samples {
		s := stats.Describe(values)
		report.Groups = append(report.Groups, GroupStats{
			Key:    key,
			Count:  s.Count,
			Mean:   stats.Round(s.Mean, 2),
			StdDev: stats.Round(s.StdDev, 2),
			Min:    s.Min,
			Max:    s.Max,
		})
	}
	sort.Slice(report.Groups, func(i, j int) bool {
		if report.Groups[i].Mean != report.Groups[j].Mean {
			return report.Groups[i].Mean > report.Groups[j].Mean
		}
		return report.Groups[i].Key < report.Groups[j].Key
	})

	if r, ok := stats.Pearson(ordinals, ordinalSalaries); ok {
		r = stats.Round(r, 4)
		report.Correlation = &r
	}

	var comparable []GroupStats
	for _, g := range report.Groups {
		if g.Key != Unspecified && g.Count >= 2 {
			comparable = append(comparable, g)
		}
	}
	if len(comparable) < 2 {
		return report, nil
	}

	higher, lower := comparable[0], comparable[len(comparable)-1]
	tt, err := stats.WelchTTest(samples[higher.Key], samples[lower.Key])
	if err != nil {
		return BiasReport{}, err
	}
	cmp := &Comparison{
		Higher:           higher.Key,
		Lower:            lower.Key,
		GapPercent:       stats.Round(stats.PercentDiff(higher.Mean, lower.Mean), 2),
		DegreesOfFreedom: stats.Round(tt.DegreesOfFreedom, 2),
		PValue:           stats.Round(tt.PValue, 6),
	}
	if !math.IsInf(tt.T, 0) {
		t := stats.Round(tt.T, 4)
		cmp.TStatistic = &t
	}
	report.Comparison = cmp
	report.Severity = Severity(cmp)
	return report, nil
}

func Severity(cmp *Comparison) string {
	if cmp == nil {
		return SeverityInsufficient
	}
	p := cmp.PValue
	gap := math.Abs(cmp.GapPercent)
	switch {
	case p < 0.01 && gap >= 10:
		return SeverityHigh
	case p < 0.05 && gap >= 5:
		return SeverityMedium
	case p < 0.05:
		return SeverityLow
	default:
		return SeverityNone
	}
}
