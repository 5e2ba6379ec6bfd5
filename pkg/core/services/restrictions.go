package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/restrictions"
	"github.com/jakechorley/guard-roster/pkg/core/roles"
	"github.com/jakechorley/guard-roster/pkg/db"
)

// RestrictionDraft is a guard's restriction picker state: the restrictions loaded from the
// backend that are still kept, and the new dates waiting for a reason
type RestrictionDraft struct {
	PopulationType model.PopulationType
	Persisted      []model.Restriction
	Pending        []model.Restriction
}

// NewRestrictionDraft starts a draft from the guard's stored restrictions. An empty
// populationType uses the guard's default population type.
func NewRestrictionDraft(guard *model.Guard, populationType model.PopulationType) (*RestrictionDraft, error) {
	if populationType == "" {
		populationType = guard.DefaultPopulationType()
	}
	settings := guard.SettingsFor(populationType)
	if settings == nil {
		return nil, fmt.Errorf("guard has no %q population settings", populationType)
	}
	return &RestrictionDraft{
		PopulationType: populationType,
		Persisted:      append([]model.Restriction{}, settings.Restrictions...),
	}, nil
}

// Merged returns the draft's restrictions as the picker shows them, ordered by date
func (d *RestrictionDraft) Merged() []model.Restriction {
	return restrictions.Sorted(restrictions.Merge(d.Persisted, d.Pending))
}

// ToggleRestriction flips date in the draft: a restricted day is released, a free day becomes
// a pending restriction
func ToggleRestriction(draft *RestrictionDraft, date model.Date) restrictions.ToggleResult {
	result := restrictions.Toggle(date, draft.Persisted, draft.Pending)
	draft.Persisted = result.Persisted
	draft.Pending = result.Pending
	return result
}

// MyRestrictionStore defines the store operation needed to submit one's own restrictions
type MyRestrictionStore interface {
	UpdateMyRestrictions(ctx context.Context, populationType model.PopulationType, restrictions []model.Restriction) error
}

// SubmitRestrictions sends the kept restrictions plus the pending ones tagged with reason.
// reason is only required when something is pending.
func SubmitRestrictions(ctx context.Context, store MyRestrictionStore, logger *zap.Logger, draft *RestrictionDraft, reason string) ([]model.Restriction, error) {
	submission, err := restrictions.Submission(draft.Persisted, draft.Pending, reason)
	if err != nil {
		return nil, err
	}

	logger.Debug("Submitting restrictions",
		zap.String("population_type", string(draft.PopulationType)),
		zap.Int("kept", len(draft.Persisted)),
		zap.Int("added", len(draft.Pending)))

	if err := store.UpdateMyRestrictions(ctx, draft.PopulationType, submission); err != nil {
		return nil, fmt.Errorf("failed to submit restrictions: %w", err)
	}

	logger.Info("Restrictions submitted", zap.Int("count", len(submission)))
	draft.Persisted = submission
	draft.Pending = nil
	return submission, nil
}

// GuardRestrictionStore defines the store operation needed to change another guard's restrictions
type GuardRestrictionStore interface {
	UpdateRestrictions(ctx context.Context, guardID string, populationType model.PopulationType, restrictions []model.Restriction) error
}

// DeleteRestrictions removes a guard's restrictions matching targets, on behalf of a manager.
// A target with an empty reason matches every restriction on its day.
func DeleteRestrictions(
	ctx context.Context,
	store GuardRestrictionStore,
	catalog Catalog,
	logger *zap.Logger,
	guardID string,
	populationType model.PopulationType,
	targets []model.Restriction,
) ([]model.Restriction, error) {
	viewer, err := currentUser(catalog)
	if err != nil {
		return nil, err
	}
	guard, err := catalog.Guard(guardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guard: %w", err)
	}
	if !roles.CanChangeRestrictions(viewer, guard) {
		return nil, fmt.Errorf("%s may not change restrictions of %s: %w", viewer.Username, guard.Username, ErrForbidden)
	}

	if populationType == "" {
		populationType = guard.DefaultPopulationType()
	}
	settings := guard.SettingsFor(populationType)
	if settings == nil {
		return nil, fmt.Errorf("guard %s has no %q population settings: %w", guard.Username, populationType, db.ErrNotFound)
	}

	remaining := restrictions.Remove(settings.Restrictions, targets)
	removed := len(settings.Restrictions) - len(remaining)
	if removed == 0 {
		return nil, fmt.Errorf("no matching restrictions: %w", db.ErrNotFound)
	}

	logger.Debug("Deleting restrictions",
		zap.String("guard_id", guard.ID),
		zap.String("population_type", string(populationType)),
		zap.Int("removed", removed))

	if err := store.UpdateRestrictions(ctx, guard.ID, populationType, remaining); err != nil {
		return nil, fmt.Errorf("failed to delete restrictions: %w", err)
	}

	logger.Info("Restrictions deleted", zap.String("guard", guard.Name), zap.Int("removed", removed))
	return remaining, nil
}
