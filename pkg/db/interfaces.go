package db

import (
	"context"
	"errors"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// ErrNotFound is returned when a looked-up record does not exist
var ErrNotFound = errors.New("not found")

// Source defines the read operations of the roster backend.
// Both the REST client and postgres.DB implement this interface.
type Source interface {
	GetGuards(ctx context.Context) ([]model.Guard, error)
	GetShifts(ctx context.Context) ([]model.Shift, error)
	GetBranches(ctx context.Context) ([]model.Branch, error)
	GetShiftTypes(ctx context.Context) ([]model.ShiftType, error)
	GetScoreSchemas(ctx context.Context) (model.ScoreSchemas, error)
	GetPopulationTypes(ctx context.Context) ([]model.PopulationType, error)
	GetCurrentUser(ctx context.Context) (*model.Guard, error)
}

// RestrictionStore defines restriction mutations
type RestrictionStore interface {
	// UpdateMyRestrictions replaces the current user's restrictions for a population type
	UpdateMyRestrictions(ctx context.Context, populationType model.PopulationType, restrictions []model.Restriction) error
	// UpdateRestrictions replaces any guard's restrictions for a population type
	UpdateRestrictions(ctx context.Context, guardID string, populationType model.PopulationType, restrictions []model.Restriction) error
}

// ShiftStore defines shift mutations
type ShiftStore interface {
	CreateShift(ctx context.Context, shift *model.Shift) (*model.Shift, error)
	AssignShift(ctx context.Context, shiftID, guardID string) error
}

// Database defines the interface for all backend operations
type Database interface {
	Source
	RestrictionStore
	ShiftStore
}
