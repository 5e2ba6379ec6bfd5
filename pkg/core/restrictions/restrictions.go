package restrictions

import (
	"errors"
	"sort"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// ErrReasonRequired is returned when pending restrictions are submitted without a reason
var ErrReasonRequired = errors.New("restriction reason is required")

// Reasons are the suggested reasons offered when submitting restrictions. Free text is also allowed.
var Reasons = []string{"רפואית", "לימודים", "אירוע משפחתי", "אחר"}

// ToggleResult is the outcome of toggling a date in a guard's restriction picker
type ToggleResult struct {
	// Added is the new pending restriction, nil when the toggle removed one
	Added                *model.Restriction
	RemovedFromPersisted []model.Restriction
	RemovedFromPending   []model.Restriction

	Persisted []model.Restriction
	Pending   []model.Restriction
}

// Merge builds a lookup of restrictions keyed by YYYY-MM-DD. Pending entries are merged after
// persisted ones, so a pending restriction overrides a persisted one on the same day.
func Merge(persisted, pending []model.Restriction) map[string]model.Restriction {
	merged := make(map[string]model.Restriction, len(persisted)+len(pending))
	for _, r := range persisted {
		merged[r.Date.Key()] = r
	}
	for _, r := range pending {
		merged[r.Date.Key()] = r
	}
	return merged
}

// Sorted returns the merged restrictions ordered by date
func Sorted(merged map[string]model.Restriction) []model.Restriction {
	out := make([]model.Restriction, 0, len(merged))
	for _, r := range merged {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

// Toggle removes date from whichever list holds it, or adds it to pending without a reason if
// neither does. The input slices are not modified.
func Toggle(date model.Date, persisted, pending []model.Restriction) ToggleResult {
	keptPersisted, removedPersisted := partition(persisted, date)
	keptPending, removedPending := partition(pending, date)

	result := ToggleResult{
		RemovedFromPersisted: removedPersisted,
		RemovedFromPending:   removedPending,
		Persisted:            keptPersisted,
		Pending:              keptPending,
	}
	if len(removedPersisted) > 0 || len(removedPending) > 0 {
		return result
	}

	added := model.Restriction{Date: model.NewDate(date.Time)}
	result.Added = &added
	result.Pending = append(result.Pending, added)
	return result
}

func partition(list []model.Restriction, date model.Date) (kept, removed []model.Restriction) {
	kept = make([]model.Restriction, 0, len(list))
	for _, r := range list {
		if r.Date.SameDay(date) {
			removed = append(removed, r)
			continue
		}
		kept = append(kept, r)
	}
	return kept, removed
}

// IsRestricted reports whether guard declared unavailability on date's calendar day. An empty
// populationType checks the guard's default population settings.
func IsRestricted(guard *model.Guard, populationType model.PopulationType, date model.Date) bool {
	if guard == nil {
		return false
	}
	if populationType == "" {
		populationType = guard.DefaultPopulationType()
	}
	settings := guard.SettingsFor(populationType)
	if settings == nil {
		return false
	}
	for _, r := range settings.Restrictions {
		if r.Date.SameDay(date) {
			return true
		}
	}
	return false
}

// AttachReason returns pending with reason set on every entry
func AttachReason(pending []model.Restriction, reason string) ([]model.Restriction, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	out := make([]model.Restriction, len(pending))
	for i, r := range pending {
		r.Reason = reason
		out[i] = r
	}
	return out, nil
}

// Submission is the full restriction list sent to the backend: persisted entries followed by the
// pending ones with reason attached
func Submission(persisted, pending []model.Restriction, reason string) ([]model.Restriction, error) {
	if len(pending) == 0 {
		return append([]model.Restriction{}, persisted...), nil
	}
	reasoned, err := AttachReason(pending, reason)
	if err != nil {
		return nil, err
	}
	out := make([]model.Restriction, 0, len(persisted)+len(reasoned))
	out = append(out, persisted...)
	return append(out, reasoned...), nil
}

// Remove drops every persisted restriction matching a target on the same day. A target with a
// reason only matches restrictions carrying that reason.
func Remove(persisted, targets []model.Restriction) []model.Restriction {
	kept := make([]model.Restriction, 0, len(persisted))
	for _, r := range persisted {
		if !matchesAny(r, targets) {
			kept = append(kept, r)
		}
	}
	return kept
}

func matchesAny(r model.Restriction, targets []model.Restriction) bool {
	for _, t := range targets {
		if r.Date.SameDay(t.Date) && (t.Reason == "" || t.Reason == r.Reason) {
			return true
		}
	}
	return false
}
