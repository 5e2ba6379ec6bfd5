package model

// PopulationType is a cohort tag driving eligibility, scoring schema and default constraints
type PopulationType string

const (
	PopulationHoger   PopulationType = "איכר"
	PopulationOfficer PopulationType = "אביר"
)

// Location groups several shift types under one physical site
type Location string

// Guard represents a schedulable person on the roster
type Guard struct {
	ID                 string               `json:"_id"`
	Name               string               `json:"name"`
	Username           string               `json:"username"`
	Branch             string               `json:"branch,omitempty"` // Empty for admins without a branch
	PopulationTypes    []PopulationType     `json:"population_types"`
	Roles              []string             `json:"roles"`
	PopulationSettings []PopulationSettings `json:"population_settings"`
}

// HasPopulationType reports whether the guard belongs to the given population type
func (g *Guard) HasPopulationType(populationType PopulationType) bool {
	for _, pt := range g.PopulationTypes {
		if pt == populationType {
			return true
		}
	}
	return false
}

// SettingsFor returns the population settings entry for the given population type, or nil
func (g *Guard) SettingsFor(populationType PopulationType) *PopulationSettings {
	if g == nil {
		return nil
	}
	for i := range g.PopulationSettings {
		if g.PopulationSettings[i].PopulationType == populationType {
			return &g.PopulationSettings[i]
		}
	}
	return nil
}

// DefaultPopulationType returns the first population type of the guard, or "" if it has none
func (g *Guard) DefaultPopulationType() PopulationType {
	if g == nil || len(g.PopulationTypes) == 0 {
		return ""
	}
	return g.PopulationTypes[0]
}

// PopulationSettings holds the per-population scoring and availability state of a guard
type PopulationSettings struct {
	PopulationType  PopulationType `json:"population_type"`
	Restrictions    []Restriction  `json:"restrictions"`
	ScoreMultiplier int            `json:"score_multiplier"`
	JoinDate        Date           `json:"join_date"`
	InitialScore    Score          `json:"initial_score"`
	Score           Score          `json:"score"`
	ExtraParams     ExtraParams    `json:"extra_params"`
}

// Restriction records a guard's declared unavailability on a day
type Restriction struct {
	Date   Date   `json:"date"`
	Reason string `json:"reason,omitempty"` // Empty until attached before submission
}

// Branch is an organisational group that guards belong to and shifts are assigned to
type Branch struct {
	ID                        string                      `json:"_id"`
	Name                      string                      `json:"name"`
	Color                     string                      `json:"color"`
	PopulationScoreProperties []PopulationScoreProperties `json:"population_score_properties"`
}

// ScoreTypeFor returns the score schema identifier configured for a population type
func (b *Branch) ScoreTypeFor(populationType PopulationType) (ScoreParamsType, bool) {
	for _, props := range b.PopulationScoreProperties {
		if props.PopulationType == populationType {
			return props.ScoreType, props.ScoreType != ""
		}
	}
	return "", false
}

// PopulationScoreProperties maps a population type to its score schema within a branch
type PopulationScoreProperties struct {
	PopulationType PopulationType  `json:"population_type"`
	ScoreType      ScoreParamsType `json:"score_type"`
}

// ShiftType is a category of recurring duty with its own slot count and default scoring
type ShiftType struct {
	ID             string              `json:"_id"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	SlotsCount     int                 `json:"slots_count"`
	PopulationType PopulationType      `json:"population_type"`
	Location       Location            `json:"location,omitempty"`
	ScoreConfig    map[DayType]float64 `json:"score_config"`
}

// Shift is a single persisted (or synthesized) slot on a date for a shift type
type Shift struct {
	ID             string         `json:"_id,omitempty"` // Empty for synthetic slots
	Date           Date           `json:"date"`
	Branch         string         `json:"branch,omitempty"`
	ShiftType      string         `json:"shift_type"`
	Order          int            `json:"order"`
	AssignedUserID string         `json:"assigned_user_id,omitempty"`
	PopulationType PopulationType `json:"population_type"`
	IsHoliday      bool           `json:"is_holiday"`
	NumDays        int            `json:"num_days"`
	Score          Score          `json:"score"`
	IsCustomScore  bool           `json:"is_custom_score"`
}

// IsFilled reports whether a guard is assigned to the shift
func (s *Shift) IsFilled() bool {
	return s.AssignedUserID != ""
}

// IsSynthetic reports whether the shift has no identity, i.e. it was projected and never persisted
func (s *Shift) IsSynthetic() bool {
	return s.ID == ""
}
