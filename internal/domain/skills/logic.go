package skills

import (
	"math"
	"sort"
	"strings"

	"hrinsight/internal/stats"
)

func NormalizeSkill(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func effectiveWeight(w float64) float64 {
	if w <= 0 || math.IsNaN(w) {
		return 1
	}
	return w
}

// Individual compares one employee's levels with a job profile. Missing
// skills count as level zero.
func Individual(profile JobProfile, levels Levels) Analysis {
	gaps := make([]Gap, 0, len(profile.Requirements))
	for _, req := range profile.Requirements {
		gaps = append(gaps, buildGap(req, levels[NormalizeSkill(req.Skill)]))
	}
	return finish(profile, gaps)
}

// Team compares the average level of the members with a job profile.
func Team(profile JobProfile, members []Member) (Analysis, error) {
	if len(members) == 0 {
		return Analysis{}, ErrEmptyTeam
	}
	gaps := make([]Gap, 0, len(profile.Requirements))
	for _, req := range profile.Requirements {
		key := NormalizeSkill(req.Skill)
		total := 0.0
		below := 0
		for _, m := range members {
			level := m.Levels[key]
			total += level
			if level < req.RequiredLevel {
				below++
			}
		}
		g := buildGap(req, stats.Round(total/float64(len(members)), 2))
		g.MembersBelow = &below
		gaps = append(gaps, g)
	}
	analysis := finish(profile, gaps)
	analysis.TeamSize = len(members)
	for _, m := range members {
		analysis.Members = append(analysis.Members, m.EmployeeID)
	}
	return analysis, nil
}

func buildGap(req Requirement, current float64) Gap {
	weight := effectiveWeight(req.Weight)
	gap := math.Max(0, req.RequiredLevel-current)
	return Gap{
		Skill:         req.Skill,
		RequiredLevel: req.RequiredLevel,
		CurrentLevel:  current,
		Gap:           stats.Round(gap, 2),
		Weight:        weight,
		WeightedGap:   stats.Round(gap*weight, 2),
		IsMandatory:   req.IsMandatory,
	}
}

func finish(profile JobProfile, gaps []Gap) Analysis {
	summary := Summary{MandatoryShortfalls: []string{}}
	for _, g := range gaps {
		summary.TotalWeightedGap += g.WeightedGap
		summary.MaxWeightedGap += math.Max(0, g.RequiredLevel) * g.Weight
		if g.IsMandatory && g.Gap > 0 {
			summary.MandatoryShortfalls = append(summary.MandatoryShortfalls, g.Skill)
		}
	}
	if summary.MaxWeightedGap > 0 {
		summary.GapScore = stats.Round(math.Min(100, summary.TotalWeightedGap/summary.MaxWeightedGap*100), 2)
	}
	summary.Readiness = stats.Round(100-summary.GapScore, 2)
	summary.TotalWeightedGap = stats.Round(summary.TotalWeightedGap, 2)
	summary.MaxWeightedGap = stats.Round(summary.MaxWeightedGap, 2)
	summary.MeetsMandatory = len(summary.MandatoryShortfalls) == 0
	sort.Strings(summary.MandatoryShortfalls)

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].WeightedGap != gaps[j].WeightedGap {
			return gaps[i].WeightedGap > gaps[j].WeightedGap
		}
		return gaps[i].Skill < gaps[j].Skill
	})
	return Analysis{
		ProfileID:   profile.ID,
		ProfileName: profile.Name,
		Gaps:        gaps,
		Summary:     summary,
	}
}
