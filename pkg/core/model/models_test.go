package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_StripsTimeComponent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare day", "2024-03-05", "2024-03-05"},
		{"utc timestamp", "2024-03-05T00:00:00Z", "2024-03-05"},
		{"offset timestamp", "2024-03-05T23:30:00+03:00", "2024-03-05"},
		{"space separated", "2024-03-05 10:00:00", "2024-03-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Key())
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("")
	assert.Error(t, err)

	_, err = ParseDate("05/03/2024")
	assert.Error(t, err)
}

func TestDate_SameDay(t *testing.T) {
	morning := NewDate(time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC))
	evening := NewDate(time.Date(2024, 3, 5, 22, 15, 0, 0, time.UTC))
	nextDay := NewDate(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))

	assert.True(t, morning.SameDay(evening))
	assert.Equal(t, morning, evening)
	assert.False(t, morning.SameDay(nextDay))
}

func TestDate_JSONRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-05T12:00:00+02:00"`), &d))
	assert.Equal(t, "2024-03-05", d.Key())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-03-05"`, string(out))

	var empty Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.True(t, empty.IsZero())
}

func TestDayTypeOf(t *testing.T) {
	// 2024-03-07 is a Thursday
	assert.Equal(t, DayThursday, DayTypeOf(DateOf(2024, 3, 7)))
	assert.Equal(t, DayWeekend, DayTypeOf(DateOf(2024, 3, 8)))
	assert.Equal(t, DayWeekend, DayTypeOf(DateOf(2024, 3, 9)))
	assert.Equal(t, DayRegular, DayTypeOf(DateOf(2024, 3, 10)))
	assert.Equal(t, DayRegular, DayTypeOf(DateOf(2024, 3, 6)))
}

func TestScore_AddAndScale(t *testing.T) {
	s := Score{RegularScore: 1.5, WeekendScore: 2}.Add(Score{RegularScore: 0.5, WeekendScore: 1})
	assert.Equal(t, Score{RegularScore: 2, WeekendScore: 3}, s)
	assert.Equal(t, Score{RegularScore: 4, WeekendScore: 6}, s.Scale(2))
}

func TestGuard_DecodesExtraParamsByPopulationType(t *testing.T) {
	payload := `{
		"_id": "g1",
		"name": "Dana",
		"username": "dana",
		"branch": "b1",
		"population_types": ["אביר"],
		"roles": [],
		"population_settings": [{
			"population_type": "אביר",
			"restrictions": [{"date": "2024-03-05T00:00:00", "reason": "לימודים"}],
			"score_multiplier": 1,
			"join_date": "2023-01-01",
			"initial_score": {"regular_score": 0, "weekend_score": 0},
			"score": {"regular_score": 12, "weekend_score": 4},
			"extra_params": {"num_holidays": 2, "has_done_bhd1": true}
		}]
	}`

	var g Guard
	require.NoError(t, json.Unmarshal([]byte(payload), &g))

	settings := g.SettingsFor(PopulationOfficer)
	require.NotNil(t, settings)
	assert.Equal(t, OfficerExtraParams{NumHolidays: 2, HasDoneBHD1: true}, settings.ExtraParams)
	assert.Equal(t, "2024-03-05", settings.Restrictions[0].Date.Key())
	assert.Equal(t, 12.0, settings.Score.RegularScore)
}

func TestDecodeExtraParams_UnknownPopulationFallsBackToGeneric(t *testing.T) {
	params, err := DecodeExtraParams("visitor", json.RawMessage(`{"badge": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, GenericExtraParams{"badge": "x"}, params)

	params, err = DecodeExtraParams(PopulationHoger, nil)
	require.NoError(t, err)
	assert.Equal(t, HogerExtraParams{}, params)
}

func TestShift_FilledAndSynthetic(t *testing.T) {
	s := Shift{ShiftType: "st1"}
	assert.True(t, s.IsSynthetic())
	assert.False(t, s.IsFilled())

	s.ID = "s1"
	s.AssignedUserID = "g1"
	assert.False(t, s.IsSynthetic())
	assert.True(t, s.IsFilled())
}
