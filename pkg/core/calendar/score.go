package calendar

import (
	"errors"
	"fmt"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// ErrScoreNotConfigured is returned when a shift type has no default score for a day type
var ErrScoreNotConfigured = errors.New("default score not configured")

// DefaultShiftScore is the default score of a shift of shiftType starting on date and spanning
// numDays days: each covered day adds the shift type's configured score for its day type, to the
// weekend score for weekend days and to the regular score otherwise. The sum is scaled by
// multiplier, the assigned guard's score multiplier (1 for unassigned shifts).
func DefaultShiftScore(shiftType *model.ShiftType, date model.Date, numDays, multiplier int) (model.Score, error) {
	if shiftType == nil {
		return model.Score{}, nil
	}
	if numDays < 1 {
		numDays = 1
	}

	var total model.Score
	for i := 0; i < numDays; i++ {
		day := date.AddDays(i)
		dayType := model.DayTypeOf(day)

		value, ok := shiftType.ScoreConfig[dayType]
		if !ok {
			return model.Score{}, fmt.Errorf("%w: shift type %q has no score for %s", ErrScoreNotConfigured, shiftType.Name, dayType)
		}

		if dayType.IsWeekend() {
			total = total.Add(model.Score{WeekendScore: value})
		} else {
			total = total.Add(model.Score{RegularScore: value})
		}
	}

	return total.Scale(multiplier), nil
}
