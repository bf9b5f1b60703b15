package attrition

import "errors"

// Rules holds every threshold and point value of the attrition rule set.
// A zero point value disables a rule.
type Rules struct {
	Tenure      TenureRule      `koanf:"tenure" json:"tenure"`
	Promotion   PromotionRule   `koanf:"promotion" json:"promotion"`
	Performance PerformanceRule `koanf:"performance" json:"performance"`
	Engagement  EngagementRule  `koanf:"engagement" json:"engagement"`
	Pay         PayRule         `koanf:"pay" json:"pay"`
	Overtime    LimitRule       `koanf:"overtime" json:"overtime"`
	Absence     LimitRule       `koanf:"absence" json:"absence"`
	Levels      LevelRule       `koanf:"levels" json:"levels"`
	TrendDelta  float64         `koanf:"trend_delta" json:"trendDelta"`
}

type TenureRule struct {
	NewHireYears  float64 `koanf:"new_hire_years" json:"newHireYears"`
	NewHirePoints float64 `koanf:"new_hire_points" json:"newHirePoints"`
	EarlyYears    float64 `koanf:"early_years" json:"earlyYears"`
	EarlyPoints   float64 `koanf:"early_points" json:"earlyPoints"`
}

type PromotionRule struct {
	StallMonths     int     `koanf:"stall_months" json:"stallMonths"`
	StallPoints     float64 `koanf:"stall_points" json:"stallPoints"`
	LongStallMonths int     `koanf:"long_stall_months" json:"longStallMonths"`
	LongStallPoints float64 `koanf:"long_stall_points" json:"longStallPoints"`
}

type PerformanceRule struct {
	LowRating float64 `koanf:"low_rating" json:"lowRating"`
	Points    float64 `koanf:"points" json:"points"`
}

type EngagementRule struct {
	LowScore       float64 `koanf:"low_score" json:"lowScore"`
	LowPoints      float64 `koanf:"low_points" json:"lowPoints"`
	ModerateScore  float64 `koanf:"moderate_score" json:"moderateScore"`
	ModeratePoints float64 `koanf:"moderate_points" json:"moderatePoints"`
}

type PayRule struct {
	GapPercent float64 `koanf:"gap_percent" json:"gapPercent"`
	MinPeers   int     `koanf:"min_peers" json:"minPeers"`
	Points     float64 `koanf:"points" json:"points"`
}

type LimitRule struct {
	Limit  float64 `koanf:"limit" json:"limit"`
	Points float64 `koanf:"points" json:"points"`
}

type LevelRule struct {
	High   float64 `koanf:"high" json:"high"`
	Medium float64 `koanf:"medium" json:"medium"`
}

func DefaultRules() Rules {
	return Rules{
		Tenure:      TenureRule{NewHireYears: 1, NewHirePoints: 15, EarlyYears: 2, EarlyPoints: 10},
		Promotion:   PromotionRule{StallMonths: 24, StallPoints: 12, LongStallMonths: 36, LongStallPoints: 20},
		Performance: PerformanceRule{LowRating: 2, Points: 15},
		Engagement:  EngagementRule{LowScore: 2.5, LowPoints: 20, ModerateScore: 3.5, ModeratePoints: 10},
		Pay:         PayRule{GapPercent: 10, MinPeers: 2, Points: 15},
		Overtime:    LimitRule{Limit: 20, Points: 10},
		Absence:     LimitRule{Limit: 5, Points: 10},
		Levels:      LevelRule{High: 70, Medium: 40},
		TrendDelta:  5,
	}
}

func (r Rules) Validate() error {
	if r.Levels.Medium <= 0 || r.Levels.High <= r.Levels.Medium || r.Levels.High > MaxScore {
		return errors.New("levels must satisfy 0 < medium < high <= 100")
	}
	if r.Tenure.EarlyYears < r.Tenure.NewHireYears {
		return errors.New("tenure.early_years must not be below tenure.new_hire_years")
	}
	if r.Promotion.LongStallMonths < r.Promotion.StallMonths {
		return errors.New("promotion.long_stall_months must not be below promotion.stall_months")
	}
	if r.Engagement.ModerateScore < r.Engagement.LowScore {
		return errors.New("engagement.moderate_score must not be below engagement.low_score")
	}
	if r.Pay.MinPeers < 2 {
		return errors.New("pay.min_peers must be at least 2")
	}
	if r.TrendDelta < 0 {
		return errors.New("trend_delta must not be negative")
	}
	for _, p := range []float64{
		r.Tenure.NewHirePoints, r.Tenure.EarlyPoints,
		r.Promotion.StallPoints, r.Promotion.LongStallPoints,
		r.Performance.Points, r.Engagement.LowPoints, r.Engagement.ModeratePoints,
		r.Pay.Points, r.Overtime.Points, r.Absence.Points,
	} {
		if p < 0 {
			return errors.New("rule points must not be negative")
		}
	}
	return nil
}

// Level maps a score onto low, medium or high.
func (r Rules) Level(score float64) string {
	switch {
	case score >= r.Levels.High:
		return LevelHigh
	case score >= r.Levels.Medium:
		return LevelMedium
	default:
		return LevelLow
	}
}
