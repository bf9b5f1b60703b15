package skills

import "errors"

var (
	ErrProfileNotFound = errors.New("job profile not found")
	ErrEmptyTeam       = errors.New("team must contain at least one employee")
	ErrProfileRequired = errors.New("profileId is required")
)

type Requirement struct {
	Skill         string  `json:"skill"`
	RequiredLevel float64 `json:"requiredLevel"`
	Weight        float64 `json:"weight"`
	IsMandatory   bool    `json:"isMandatory"`
}

type JobProfile struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	JobTitle     string        `json:"jobTitle"`
	Requirements []Requirement `json:"requirements"`
}

// Levels maps a normalised skill name to a proficiency level.
type Levels map[string]float64

type Member struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Levels     Levels `json:"-"`
}

type Gap struct {
	Skill         string  `json:"skill"`
	RequiredLevel float64 `json:"requiredLevel"`
	CurrentLevel  float64 `json:"currentLevel"`
	Gap           float64 `json:"gap"`
	Weight        float64 `json:"weight"`
	WeightedGap   float64 `json:"weightedGap"`
	IsMandatory   bool    `json:"isMandatory"`
	MembersBelow  *int    `json:"membersBelow,omitempty"`
}

type Summary struct {
	TotalWeightedGap    float64  `json:"totalWeightedGap"`
	MaxWeightedGap      float64  `json:"maxWeightedGap"`
	GapScore            float64  `json:"gapScore"`
	Readiness           float64  `json:"readiness"`
	MandatoryShortfalls []string `json:"mandatoryShortfalls"`
	MeetsMandatory      bool     `json:"meetsMandatory"`
}

type Analysis struct {
	ProfileID   string   `json:"profileId"`
	ProfileName string   `json:"profileName"`
	EmployeeID  string   `json:"employeeId,omitempty"`
	Name        string   `json:"name,omitempty"`
	TeamSize    int      `json:"teamSize,omitempty"`
	Gaps        []Gap    `json:"gaps"`
	Summary     Summary  `json:"summary"`
	Members     []string `json:"members,omitempty"`
}
