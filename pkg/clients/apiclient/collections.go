package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// GetGuards fetches every guard visible to the session
func (c *Client) GetGuards(ctx context.Context) ([]model.Guard, error) {
	var guards []model.Guard
	if err := c.do(ctx, http.MethodGet, "users/", nil, nil, &guards); err != nil {
		return nil, fmt.Errorf("failed to get guards: %w", err)
	}
	return guards, nil
}

// GetCurrentUser fetches the logged-in guard
func (c *Client) GetCurrentUser(ctx context.Context) (*model.Guard, error) {
	var guard model.Guard
	if err := c.do(ctx, http.MethodGet, "users/me/", nil, nil, &guard); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return &guard, nil
}

func (c *Client) GetShifts(ctx context.Context) ([]model.Shift, error) {
	var shifts []model.Shift
	if err := c.do(ctx, http.MethodGet, "shifts/", nil, nil, &shifts); err != nil {
		return nil, fmt.Errorf("failed to get shifts: %w", err)
	}
	return shifts, nil
}

func (c *Client) GetBranches(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	if err := c.do(ctx, http.MethodGet, "branches/", nil, nil, &branches); err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}
	return branches, nil
}

func (c *Client) GetShiftTypes(ctx context.Context) ([]model.ShiftType, error) {
	var shiftTypes []model.ShiftType
	if err := c.do(ctx, http.MethodGet, "shift_types/", nil, nil, &shiftTypes); err != nil {
		return nil, fmt.Errorf("failed to get shift types: %w", err)
	}
	return shiftTypes, nil
}

func (c *Client) GetScoreSchemas(ctx context.Context) (model.ScoreSchemas, error) {
	var schemas model.ScoreSchemas
	if err := c.do(ctx, http.MethodGet, "score_table_schemas/", nil, nil, &schemas); err != nil {
		return nil, fmt.Errorf("failed to get score table schemas: %w", err)
	}
	return schemas, nil
}

func (c *Client) GetPopulationTypes(ctx context.Context) ([]model.PopulationType, error) {
	var populationTypes []model.PopulationType
	if err := c.do(ctx, http.MethodGet, "population_types/", nil, nil, &populationTypes); err != nil {
		return nil, fmt.Errorf("failed to get population types: %w", err)
	}
	return populationTypes, nil
}

// UpdateMyRestrictions replaces the current user's restrictions for a population type
func (c *Client) UpdateMyRestrictions(ctx context.Context, populationType model.PopulationType, restrictions []model.Restriction) error {
	query := url.Values{"population_type": {string(populationType)}}
	if err := c.do(ctx, http.MethodPut, "users/me/restrictions", query, nonNil(restrictions), nil); err != nil {
		return fmt.Errorf("failed to update restrictions: %w", err)
	}
	return nil
}

// UpdateRestrictions replaces a guard's restrictions for a population type
func (c *Client) UpdateRestrictions(ctx context.Context, guardID string, populationType model.PopulationType, restrictions []model.Restriction) error {
	query := url.Values{"population_type": {string(populationType)}}
	path := fmt.Sprintf("users/%s/restrictions", url.PathEscape(guardID))
	if err := c.do(ctx, http.MethodPut, path, query, nonNil(restrictions), nil); err != nil {
		return fmt.Errorf("failed to update restrictions of guard %s: %w", guardID, err)
	}
	return nil
}

// CreateShift persists a new shift and returns it with its backend id
func (c *Client) CreateShift(ctx context.Context, shift *model.Shift) (*model.Shift, error) {
	var created model.Shift
	if err := c.do(ctx, http.MethodPut, "shifts/", nil, shift, &created); err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}
	return &created, nil
}

// AssignShift assigns a guard to a persisted shift
func (c *Client) AssignShift(ctx context.Context, shiftID, guardID string) error {
	query := url.Values{"user_id": {guardID}}
	path := fmt.Sprintf("shifts/%s/assign_user", url.PathEscape(shiftID))
	if err := c.do(ctx, http.MethodPatch, path, query, nil, nil); err != nil {
		return fmt.Errorf("failed to assign shift %s: %w", shiftID, err)
	}
	return nil
}

// nonNil makes an empty restriction list encode as [] rather than null
func nonNil(restrictions []model.Restriction) []model.Restriction {
	if restrictions == nil {
		return []model.Restriction{}
	}
	return restrictions
}
