package attrition

import (
	"testing"
	"time"

	"hrinsight/internal/domain/employees"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func hasRule(a Assessment, rule string) bool {
	for _, f := range a.Factors {
		if f.Rule == rule {
			return true
		}
	}
	return false
}

func TestScoreNoSignalsIsLow(t *testing.T) {
	rec := employees.Record{
		ID:                "e1",
		HireDate:          date(2020, time.January, 1),
		LastPromotionDate: date(2024, time.January, 1),
		PerformanceRating: ptr(4.0),
		EngagementScore:   ptr(4.5),
	}
	a := Score(rec, nil, DefaultRules(), testNow)
	if a.Score != 0 || a.Level != LevelLow {
		t.Fatalf("expected zero low score, got %v %s", a.Score, a.Level)
	}
	if a.Factors == nil || len(a.Factors) != 0 {
		t.Fatalf("expected empty factor list, got %#v", a.Factors)
	}
}

func TestScoreMissingFieldsContributeNothing(t *testing.T) {
	a := Score(employees.Record{ID: "e1"}, nil, DefaultRules(), testNow)
	if a.Score != 0 {
		t.Fatalf("expected 0, got %v", a.Score)
	}
}

func TestScoreTenureBands(t *testing.T) {
	rules := DefaultRules()
	newHire := Score(employees.Record{HireDate: date(2025, time.January, 1)}, nil, rules, testNow)
	if !hasRule(newHire, RuleNewHire) || newHire.Score != 15 {
		t.Fatalf("expected new hire factor, got %#v", newHire)
	}
	early := Score(employees.Record{HireDate: date(2024, time.January, 1)}, nil, rules, testNow)
	if !hasRule(early, RuleEarlyTenure) || early.Score != 10 {
		t.Fatalf("expected early tenure factor, got %#v", early)
	}
}

func TestScorePromotionClockStartsAtHire(t *testing.T) {
	rec := employees.Record{HireDate: date(2021, time.January, 1)}
	a := Score(rec, nil, DefaultRules(), testNow)
	if !hasRule(a, RulePromotionLongStall) {
		t.Fatalf("expected long stall from hire date, got %#v", a.Factors)
	}

	rec.LastPromotionDate = date(2022, time.December, 1)
	a = Score(rec, nil, DefaultRules(), testNow)
	if !hasRule(a, RulePromotionStall) || hasRule(a, RulePromotionLongStall) {
		t.Fatalf("expected short stall, got %#v", a.Factors)
	}
}

func TestScoreBelowPeerPay(t *testing.T) {
	records := []employees.Record{
		{ID: "a", JobTitle: "Engineer", Salary: ptr(70000.0)},
		{ID: "b", JobTitle: "engineer ", Salary: ptr(100000.0)},
		{ID: "c", JobTitle: "Engineer", Salary: ptr(100000.0)},
	}
	peers := BuildPeerStats(records)
	if peers["engineer"].Count != 3 {
		t.Fatalf("expected 3 peers, got %#v", peers)
	}
	a := Score(records[0], peers, DefaultRules(), testNow)
	if !hasRule(a, RuleBelowPeerPay) {
		t.Fatalf("expected below peer pay, got %#v", a.Factors)
	}
	b := Score(records[1], peers, DefaultRules(), testNow)
	if hasRule(b, RuleBelowPeerPay) {
		t.Fatalf("did not expect pay factor for b")
	}
}

func TestScorePayNeedsEnoughPeers(t *testing.T) {
	rec := employees.Record{JobTitle: "Solo", Salary: ptr(10.0)}
	peers := BuildPeerStats([]employees.Record{rec})
	if hasRule(Score(rec, peers, DefaultRules(), testNow), RuleBelowPeerPay) {
		t.Fatalf("single peer must not trigger pay factor")
	}
}

func TestScoreHighAndClamped(t *testing.T) {
	rules := DefaultRules()
	rules.Overtime.Points = 60
	rec := employees.Record{
		HireDate:          date(2025, time.March, 1),
		PerformanceRating: ptr(1.5),
		EngagementScore:   ptr(2.0),
		OvertimeHours:     30,
		AbsenceDays:       9,
	}
	a := Score(rec, nil, rules, testNow)
	if a.Score != MaxScore || a.Level != LevelHigh {
		t.Fatalf("expected clamped high score, got %v %s", a.Score, a.Level)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	rec := employees.Record{HireDate: date(2024, time.February, 1), EngagementScore: ptr(3.0), AbsenceDays: 7}
	first := Score(rec, nil, DefaultRules(), testNow)
	for i := 0; i < 5; i++ {
		again := Score(rec, nil, DefaultRules(), testNow)
		if again.Score != first.Score || len(again.Factors) != len(first.Factors) {
			t.Fatalf("score changed between runs")
		}
	}
}

func TestLevels(t *testing.T) {
	rules := DefaultRules()
	cases := map[float64]string{0: LevelLow, 39.99: LevelLow, 40: LevelMedium, 69.9: LevelMedium, 70: LevelHigh, 100: LevelHigh}
	for score, want := range cases {
		if got := rules.Level(score); got != want {
			t.Fatalf("level(%v) = %s, want %s", score, got, want)
		}
	}
}

func TestTrend(t *testing.T) {
	if Trend(50, nil, 5) != TrendNew {
		t.Fatalf("expected new")
	}
	if Trend(55, ptr(50.0), 5) != TrendRising {
		t.Fatalf("expected rising")
	}
	if Trend(45, ptr(50.0), 5) != TrendFalling {
		t.Fatalf("expected falling")
	}
	if Trend(52, ptr(50.0), 5) != TrendStable {
		t.Fatalf("expected stable")
	}
}

func TestMonthsBetween(t *testing.T) {
	if got := monthsBetween(*date(2023, time.June, 15), testNow); got != 24 {
		t.Fatalf("expected 24, got %d", got)
	}
	if got := monthsBetween(*date(2023, time.June, 16), testNow); got != 23 {
		t.Fatalf("expected 23, got %d", got)
	}
}

func TestRulesValidate(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	r := DefaultRules()
	r.Levels.High = 30
	if err := r.Validate(); err == nil {
		t.Fatalf("expected level ordering error")
	}
	r = DefaultRules()
	r.Pay.MinPeers = 1
	if err := r.Validate(); err == nil {
		t.Fatalf("expected min peers error")
	}
}

func TestRulesHolder(t *testing.T) {
	var nilHolder *RulesHolder
	if nilHolder.Current().Levels.High != 70 {
		t.Fatalf("nil holder should serve defaults")
	}
	h := NewRulesHolder(DefaultRules())
	r := DefaultRules()
	r.Levels.High = 80
	h.Store(r)
	if h.Current().Levels.High != 80 {
		t.Fatalf("expected stored rules")
	}
}
