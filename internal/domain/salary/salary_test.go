package salary

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrinsight/internal/domain/employees"
)

var testNow = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func emp(id, gender, dept, education, title string, salary float64) employees.Record {
	s := salary
	return employees.Record{
		ID:             id,
		FirstName:      id,
		LastName:       "Test",
		Gender:         gender,
		DepartmentName: dept,
		EducationLevel: education,
		JobTitle:       title,
		Salary:         &s,
	}
}

func genderSample() []employees.Record {
	return []employees.Record{
		emp("m1", "Male", "Eng", "bachelor", "Dev", 100000),
		emp("m2", "male", "Eng", "master", "Dev", 110000),
		emp("m3", "Male", "Ops", "master", "Ops", 105000),
		emp("m4", "Male", "Ops", "bachelor", "Ops", 95000),
		emp("f1", "Female", "Eng", "bachelor", "Dev", 80000),
		emp("f2", "Female", "Eng", "master", "Dev", 85000),
		emp("f3", "Female", "Ops", "bachelor", "Ops", 82000),
		emp("f4", "female", "Ops", "doctorate", "Ops", 78000),
		emp("u1", "", "Ops", "", "Ops", 500000),
		emp("n1", "Male", "Ops", "bachelor", "Ops", 0),
	}
}

func TestAnalyzeBiasDetectsGap(t *testing.T) {
	report, err := AnalyzeBias(genderSample(), AttributeGender, testNow)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.OverallCount != 9 {
		t.Fatalf("zero salaries must be skipped, got count %d", report.OverallCount)
	}
	if report.Groups[0].Key != Unspecified {
		t.Fatalf("groups must be sorted by mean desc, got %#v", report.Groups)
	}
	cmp := report.Comparison
	if cmp == nil || cmp.Higher != "male" || cmp.Lower != "female" {
		t.Fatalf("unspecified must not be compared, got %#v", cmp)
	}
	if cmp.GapPercent < 26 || cmp.GapPercent > 26.2 {
		t.Fatalf("unexpected gap %v", cmp.GapPercent)
	}
	if cmp.PValue >= 0.01 || cmp.TStatistic == nil || *cmp.TStatistic <= 0 {
		t.Fatalf("expected significant positive t, got %#v", cmp)
	}
	if report.Severity != SeverityHigh {
		t.Fatalf("expected high severity, got %s", report.Severity)
	}
	if report.Correlation != nil {
		t.Fatalf("correlation only applies to education")
	}
}

func TestAnalyzeBiasEducationCorrelation(t *testing.T) {
	records := []employees.Record{
		emp("a", "", "", "bachelor", "", 50000),
		emp("b", "", "", "bachelor", "", 55000),
		emp("c", "", "", "master", "", 60000),
		emp("d", "", "", "master", "", 65000),
		emp("e", "", "", "doctorate", "", 80000),
	}
	report, err := AnalyzeBias(records, AttributeEducation, testNow)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.Correlation == nil || *report.Correlation <= 0.9 {
		t.Fatalf("expected strong positive correlation, got %v", report.Correlation)
	}
	if report.Comparison == nil || report.Comparison.Higher != "master" || report.Comparison.Lower != "bachelor" {
		t.Fatalf("single-member groups must not be compared, got %#v", report.Comparison)
	}
}

func TestAnalyzeBiasInsufficientData(t *testing.T) {
	records := []employees.Record{
		emp("a", "female", "", "", "", 50000),
		emp("b", "female", "", "", "", 52000),
		emp("c", "male", "", "", "", 51000),
	}
	report, err := AnalyzeBias(records, AttributeGender, testNow)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.Severity != SeverityInsufficient || report.Comparison != nil {
		t.Fatalf("expected insufficient data, got %#v", report)
	}
}

func TestAnalyzeBiasConstantGroups(t *testing.T) {
	records := []employees.Record{
		emp("a", "x", "", "", "", 100),
		emp("b", "x", "", "", "", 100),
		emp("c", "y", "", "", "", 50),
		emp("d", "y", "", "", "", 50),
	}
	report, err := AnalyzeBias(records, AttributeGender, testNow)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.Comparison.TStatistic != nil || report.Comparison.PValue != 0 {
		t.Fatalf("expected infinite t reported as nil, got %#v", report.Comparison)
	}
	if report.Severity != SeverityHigh {
		t.Fatalf("expected high severity, got %s", report.Severity)
	}
}

func TestAnalyzeBiasUnknownAttribute(t *testing.T) {
	if _, err := AnalyzeBias(nil, "age", testNow); !errors.Is(err, ErrUnknownAttribute) {
		t.Fatalf("expected unknown attribute, got %v", err)
	}
}

func TestSeverity(t *testing.T) {
	cases := []struct {
		p, gap float64
		want   string
	}{
		{0.001, 12, SeverityHigh},
		{0.001, 6, SeverityMedium},
		{0.04, 20, SeverityMedium},
		{0.04, 2, SeverityLow},
		{0.2, 30, SeverityNone},
	}
	for _, c := range cases {
		if got := Severity(&Comparison{PValue: c.p, GapPercent: c.gap}); got != c.want {
			t.Fatalf("severity(p=%v, gap=%v) = %s, want %s", c.p, c.gap, got, c.want)
		}
	}
	if Severity(nil) != SeverityInsufficient {
		t.Fatalf("nil comparison must be insufficient")
	}
}

func TestDetectWarnings(t *testing.T) {
	records := []employees.Record{
		emp("d1", "", "Eng", "", "Dev", 100),
		emp("d2", "", "Eng", "", "Dev", 100),
		emp("d3", "", "Eng", "", "Dev", 100),
		emp("d4", "", "Eng", "", "Dev", 200),
		emp("o1", "", "Ops", "", "Ops", 50),
		emp("o2", "", "Ops", "", "Ops", 70),
		emp("s1", "", "Solo", "", "Solo", 1),
	}
	warnings, err := DetectWarnings(records, "", 20)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("deviation equal to threshold must not be flagged, got %#v", warnings)
	}
	w := warnings[0]
	if w.EmployeeID != "d4" || w.Direction != DirectionAbove || w.Severity != SeverityHigh || w.DeviationPercent != 60 || w.GroupSize != 4 {
		t.Fatalf("unexpected warning %#v", w)
	}

	warnings, err = DetectWarnings(records, GroupByJobTitle, 10)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(warnings) != 6 || warnings[0].EmployeeID != "d4" {
		t.Fatalf("expected sorted warnings, got %#v", warnings)
	}
	last := warnings[len(warnings)-1]
	if last.Severity != SeverityMedium || last.GroupKey != "Ops" {
		t.Fatalf("expected medium ops warning last, got %#v", last)
	}
}

func TestDetectWarningsByDepartment(t *testing.T) {
	records := []employees.Record{
		emp("a", "", "Eng", "", "Dev", 100),
		emp("b", "", "Eng", "", "QA", 300),
	}
	warnings, err := DetectWarnings(records, GroupByDepartment, 20)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(warnings) != 2 || warnings[0].GroupBy != GroupByDepartment {
		t.Fatalf("expected department grouping, got %#v", warnings)
	}
}

func TestDetectWarningsValidation(t *testing.T) {
	if _, err := DetectWarnings(nil, "age", 20); !errors.Is(err, ErrUnknownGroupBy) {
		t.Fatalf("expected groupBy error, got %v", err)
	}
	for _, th := range []float64{0, -1, 101} {
		if _, err := DetectWarnings(nil, "", th); !errors.Is(err, ErrInvalidThreshold) {
			t.Fatalf("expected threshold error for %v, got %v", th, err)
		}
	}
}

type fakeReader struct {
	records []employees.Record
}

func (f fakeReader) List(context.Context, string, employees.Filter) ([]employees.Record, error) {
	return f.records, nil
}

func TestServiceUsesDefaultThreshold(t *testing.T) {
	svc := NewService(fakeReader{records: []employees.Record{
		emp("a", "", "", "", "Dev", 100),
		emp("b", "", "", "", "Dev", 130),
	}}, 10)
	warnings, err := svc.Warnings(context.Background(), "t1", "", 0)
	if err != nil || len(warnings) != 2 {
		t.Fatalf("expected two warnings at default threshold, got %#v err=%v", warnings, err)
	}
	if NewService(fakeReader{}, 0).DefaultThreshold != DefaultWarningThreshold {
		t.Fatalf("invalid default must fall back")
	}
	if _, err := svc.Bias(context.Background(), "t1", "height"); !errors.Is(err, ErrUnknownAttribute) {
		t.Fatalf("expected attribute error, got %v", err)
	}
}

func TestDetectWarningsGroupsTitlesCaseInsensitively(t *testing.T) {
	records := []employees.Record{
		emp("a", "", "Eng", "", "Engineer", 100),
		emp("b", "", "Eng", "", "engineer ", 100),
		emp("c", "", "Eng", "", "ENGINEER", 100),
		emp("d", "", "Eng", "", "Engineer", 200),
	}
	warnings, err := DetectWarnings(records, GroupByJobTitle, 20)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(warnings) != 1 || warnings[0].EmployeeID != "d" || warnings[0].GroupSize != 4 {
		t.Fatalf("expected one group of four, got %#v", warnings)
	}
	if warnings[0].GroupKey != "Engineer" {
		t.Fatalf("expected first seen title as label, got %q", warnings[0].GroupKey)
	}
}
