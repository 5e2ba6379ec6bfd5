package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/calendar"
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/roles"
)

// ErrIneligible is returned when a guard cannot take a shift
var ErrIneligible = errors.New("guard is not eligible for shift")

// ShiftCreator defines the store operation needed to persist a slot
type ShiftCreator interface {
	CreateShift(ctx context.Context, shift *model.Shift) (*model.Shift, error)
}

// ShiftAssigner defines the store operation needed to assign a persisted shift
type ShiftAssigner interface {
	AssignShift(ctx context.Context, shiftID, guardID string) error
}

// MaterializeRequest describes a synthetic slot to persist
type MaterializeRequest struct {
	Slot       model.Shift // A slot from a calendar view that has no identity yet
	Branch     string
	AssigneeID string // Optional guard to assign right away
	NumDays    int    // Days covered, the slot's own value or 1 when zero
}

// MaterializeSlot persists a synthetic slot with its default score. Only admins may create
// shifts. The score is scaled by the assignee's score multiplier.
func MaterializeSlot(
	ctx context.Context,
	store ShiftCreator,
	catalog Catalog,
	holidays *calendar.Holidays,
	logger *zap.Logger,
	req MaterializeRequest,
) (*model.Shift, error) {
	viewer, err := currentUser(catalog)
	if err != nil {
		return nil, err
	}
	if !roles.CanCreateShift(viewer) {
		return nil, fmt.Errorf("%s may not create shifts: %w", viewer.Username, ErrForbidden)
	}

	slot := req.Slot
	if !slot.IsSynthetic() {
		return nil, fmt.Errorf("shift %s is already persisted", slot.ID)
	}

	shiftType, err := catalog.ShiftType(slot.ShiftType)
	if err != nil {
		return nil, fmt.Errorf("failed to get shift type: %w", err)
	}
	if slot.Order < 0 || slot.Order >= shiftType.SlotsCount {
		return nil, fmt.Errorf("round %d is out of range for shift type %s with %d rounds", slot.Order, shiftType.Name, shiftType.SlotsCount)
	}

	populationType := slot.PopulationType
	if populationType == "" {
		populationType = shiftType.PopulationType
	}

	multiplier := 1
	if req.AssigneeID != "" {
		guard, err := catalog.Guard(req.AssigneeID)
		if err != nil {
			return nil, fmt.Errorf("failed to get assignee: %w", err)
		}
		if err := checkEligible(guard, req.Branch, populationType); err != nil {
			return nil, err
		}
		if settings := guard.SettingsFor(populationType); settings != nil && settings.ScoreMultiplier > 0 {
			multiplier = settings.ScoreMultiplier
		}
	}

	numDays := req.NumDays
	if numDays == 0 {
		numDays = slot.NumDays
	}
	if numDays < 1 {
		numDays = 1
	}

	score, err := calendar.DefaultShiftScore(shiftType, slot.Date, numDays, multiplier)
	if err != nil {
		return nil, fmt.Errorf("failed to compute default score: %w", err)
	}

	shift := &model.Shift{
		Date:           slot.Date,
		Branch:         req.Branch,
		ShiftType:      shiftType.ID,
		Order:          slot.Order,
		AssignedUserID: req.AssigneeID,
		PopulationType: populationType,
		IsHoliday:      holidays.IsHoliday(slot.Date),
		NumDays:        numDays,
		Score:          score,
	}

	logger.Debug("Creating shift",
		zap.String("date", shift.Date.Key()),
		zap.String("shift_type", shift.ShiftType),
		zap.Int("order", shift.Order),
		zap.Bool("is_holiday", shift.IsHoliday),
		zap.Float64("regular_score", score.RegularScore),
		zap.Float64("weekend_score", score.WeekendScore))

	created, err := store.CreateShift(ctx, shift)
	if err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}

	logger.Info("Shift created", zap.String("id", created.ID), zap.String("date", created.Date.Key()))
	return created, nil
}

// AssignShift assigns a persisted shift to a guard of the shift's branch and population type
func AssignShift(ctx context.Context, store ShiftAssigner, catalog Catalog, logger *zap.Logger, shiftID, guardID string) error {
	viewer, err := currentUser(catalog)
	if err != nil {
		return err
	}
	shift, err := catalog.Shift(shiftID)
	if err != nil {
		return fmt.Errorf("failed to get shift: %w", err)
	}
	if !roles.CanEditShift(viewer, shift) {
		return fmt.Errorf("%s may not assign shift %s: %w", viewer.Username, shiftID, ErrForbidden)
	}

	guard, err := catalog.Guard(guardID)
	if err != nil {
		return fmt.Errorf("failed to get guard: %w", err)
	}
	if err := checkEligible(guard, shift.Branch, shift.PopulationType); err != nil {
		return err
	}

	if err := store.AssignShift(ctx, shiftID, guardID); err != nil {
		return fmt.Errorf("failed to assign shift: %w", err)
	}

	logger.Info("Shift assigned",
		zap.String("shift_id", shiftID),
		zap.String("date", shift.Date.Key()),
		zap.String("guard", guard.Name))
	return nil
}

// checkEligible rejects guards of another branch or outside the population type
func checkEligible(guard *model.Guard, branch string, populationType model.PopulationType) error {
	if branch != "" && guard.Branch != branch {
		return fmt.Errorf("%s is in another branch: %w", guard.Username, ErrIneligible)
	}
	if populationType != "" && !guard.HasPopulationType(populationType) {
		return fmt.Errorf("%s is not in %q population: %w", guard.Username, populationType, ErrIneligible)
	}
	return nil
}
