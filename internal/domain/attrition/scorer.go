package attrition

import (
	"fmt"
	"math"
	"time"

	"hrinsight/internal/domain/employees"
	"hrinsight/internal/stats"
)

// PeerPay is the salary mean and headcount of one job title.
type PeerPay struct {
	Mean  float64
	Count int
}

// PeerStats indexes salary peers by normalised job title.
type PeerStats map[string]PeerPay

func BuildPeerStats(records []employees.Record) PeerStats {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, rec := range records {
		salary, ok := rec.SalaryValue()
		key := rec.TitleKey()
		if !ok || key == "" {
			continue
		}
		sums[key] += salary
		counts[key]++
	}
	out := make(PeerStats, len(sums))
	for key, sum := range sums {
		out[key] = PeerPay{Mean: sum / float64(counts[key]), Count: counts[key]}
	}
	return out
}

// Score applies the rule set to one employee. The result depends only on its
// arguments.
func Score(rec employees.Record, peers PeerStats, rules Rules, now time.Time) Assessment {
	var factors []Factor
	add := func(rule string, points float64, detail string) {
		if points > 0 {
			factors = append(factors, Factor{Rule: rule, Points: points, Detail: detail})
		}
	}

	if rec.HireDate != nil && !rec.HireDate.After(now) {
		years := now.Sub(*rec.HireDate).Hours() / 24 / 365.25
		switch {
		case years < rules.Tenure.NewHireYears:
			add(RuleNewHire, rules.Tenure.NewHirePoints, fmt.Sprintf("tenure %.1f years", years))
		case years < rules.Tenure.EarlyYears:
			add(RuleEarlyTenure, rules.Tenure.EarlyPoints, fmt.Sprintf("tenure %.1f years", years))
		}
	}

	promotedOn := rec.LastPromotionDate
	if promotedOn == nil {
		promotedOn = rec.HireDate
	}
	if promotedOn != nil && !promotedOn.After(now) {
		months := monthsBetween(*promotedOn, now)
		switch {
		case months > rules.Promotion.LongStallMonths:
			add(RulePromotionLongStall, rules.Promotion.LongStallPoints, fmt.Sprintf("%d months since last promotion", months))
		case months > rules.Promotion.StallMonths:
			add(RulePromotionStall, rules.Promotion.StallPoints, fmt.Sprintf("%d months since last promotion", months))
		}
	}

	if rec.PerformanceRating != nil && *rec.PerformanceRating <= rules.Performance.LowRating {
		add(RuleLowPerformance, rules.Performance.Points, fmt.Sprintf("performance rating %.1f", *rec.PerformanceRating))
	}

	if rec.EngagementScore != nil {
		switch {
		case *rec.EngagementScore < rules.Engagement.LowScore:
			add(RuleLowEngagement, rules.Engagement.LowPoints, fmt.Sprintf("engagement score %.1f", *rec.EngagementScore))
		case *rec.EngagementScore < rules.Engagement.ModerateScore:
			add(RuleModerateEngagement, rules.Engagement.ModeratePoints, fmt.Sprintf("engagement score %.1f", *rec.EngagementScore))
		}
	}

	if salary, ok := rec.SalaryValue(); ok {
		peer, found := peers[rec.TitleKey()]
		if found && peer.Count >= rules.Pay.MinPeers && peer.Mean > 0 {
			below := -stats.PercentDiff(salary, peer.Mean)
			if below > rules.Pay.GapPercent {
				add(RuleBelowPeerPay, rules.Pay.Points, fmt.Sprintf("salary %.1f%% below %s peers", below, rec.JobTitle))
			}
		}
	}

	if rec.OvertimeHours > rules.Overtime.Limit {
		add(RuleOvertime, rules.Overtime.Points, fmt.Sprintf("%.0f overtime hours per month", rec.OvertimeHours))
	}
	if rec.AbsenceDays > rules.Absence.Limit {
		add(RuleAbsence, rules.Absence.Points, fmt.Sprintf("%.0f absence days in 90", rec.AbsenceDays))
	}

	total := 0.0
	for _, f := range factors {
		total += f.Points
	}
	score := stats.Round(math.Min(MaxScore, math.Max(MinScore, total)), 2)
	if factors == nil {
		factors = []Factor{}
	}
	return Assessment{
		EmployeeID: rec.ID,
		Score:      score,
		Level:      rules.Level(score),
		Factors:    factors,
	}
}

// monthsBetween counts whole calendar months from a to b.
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}

// Trend compares the latest score with the previous one.
func Trend(latest float64, previous *float64, delta float64) string {
	if previous == nil {
		return TrendNew
	}
	diff := latest - *previous
	switch {
	case diff >= delta:
		return TrendRising
	case diff <= -delta:
		return TrendFalling
	default:
		return TrendStable
	}
}

func ValidLevel(level string) bool {
	return level == LevelLow || level == LevelMedium || level == LevelHigh
}

func levelRank(level string) int {
	switch level {
	case LevelHigh:
		return 2
	case LevelMedium:
		return 1
	default:
		return 0
	}
}
