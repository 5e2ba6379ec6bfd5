package restrictions

import (
	"sort"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// Conflict is an assigned shift falling on a day its guard declared unavailable
type Conflict struct {
	Shift       model.Shift       `json:"shift"`
	Guard       model.Guard       `json:"guard"`
	Restriction model.Restriction `json:"restriction"`
}

// Conflicts returns every assigned shift whose guard has a restriction on the shift's day, for
// the shift's population type. Shifts assigned to unknown guards are skipped.
func Conflicts(guards []model.Guard, shifts []model.Shift) []Conflict {
	byID := make(map[string]*model.Guard, len(guards))
	for i := range guards {
		byID[guards[i].ID] = &guards[i]
	}

	conflicts := make([]Conflict, 0)
	for _, s := range shifts {
		if !s.IsFilled() {
			continue
		}
		guard, ok := byID[s.AssignedUserID]
		if !ok {
			continue
		}
		settings := guard.SettingsFor(s.PopulationType)
		if settings == nil {
			settings = guard.SettingsFor(guard.DefaultPopulationType())
		}
		if settings == nil {
			continue
		}
		for _, r := range settings.Restrictions {
			if r.Date.SameDay(s.Date) {
				conflicts = append(conflicts, Conflict{Shift: s, Guard: *guard, Restriction: r})
				break
			}
		}
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].Shift.Date.Before(conflicts[j].Shift.Date.Time)
	})
	return conflicts
}
