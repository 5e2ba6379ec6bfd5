package scoring

import (
	"time"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// GuardRow is one flattened row of the manage-guards table
type GuardRow struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Username        string                 `json:"username"`
	Branch          string                 `json:"branch"`
	PopulationTypes []model.PopulationType `json:"population_types"`
	ScoreMultiplier int                    `json:"score_multiplier"`
	JoinDate        model.Date             `json:"join_date"`
	Score           model.Score            `json:"score"`
	Weighted        *WeightedScores        `json:"weighted,omitempty"`
	Extra           map[string]any         `json:"extra,omitempty"`
}

// Cell returns the value of a score schema column for the row, and whether the row has one
func (r *GuardRow) Cell(columnID string) (any, bool) {
	switch columnID {
	case "regular_score":
		return r.Score.RegularScore, true
	case "weekend_score":
		return r.Score.WeekendScore, true
	}
	v, ok := r.Extra[columnID]
	return v, ok
}

// GuardRows builds a table row per guard. Guards without population settings still get a row,
// with their score fields left empty.
func GuardRows(guards []model.Guard, branches []model.Branch, now time.Time, notify Notifier) []GuardRow {
	branchNames := make(map[string]string, len(branches))
	for _, b := range branches {
		branchNames[b.ID] = b.Name
	}

	rows := make([]GuardRow, 0, len(guards))
	for i := range guards {
		g := &guards[i]
		row := GuardRow{
			ID:              g.ID,
			Name:            g.Name,
			Username:        g.Username,
			Branch:          branchNames[g.Branch],
			PopulationTypes: g.PopulationTypes,
		}

		if settings := OnlyPopulationSettings(g, notify); settings != nil {
			row.ScoreMultiplier = settings.ScoreMultiplier
			row.JoinDate = settings.JoinDate
			row.Score = settings.Score
			row.Weighted = weightedFor(settings, now)
			if settings.ExtraParams != nil {
				row.Extra = settings.ExtraParams.Values()
			}
		}
		rows = append(rows, row)
	}
	return rows
}
