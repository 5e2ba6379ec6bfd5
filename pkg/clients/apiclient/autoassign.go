package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// AutoAssignRequest asks the backend assignment model to fill a set of shifts
type AutoAssignRequest struct {
	Branch                     string
	PopulationType             model.PopulationType
	OverwriteManualAssignments bool
	GuardIDs                   []string
	ShiftIDs                   []string
	Constraints                json.RawMessage
}

type autoAssignBody struct {
	GuardIDs    []string        `json:"db_users_ids"`
	ShiftIDs    []string        `json:"db_shifts_ids"`
	Constraints json.RawMessage `json:"constraints"`
}

// AutoAssign runs the backend assignment model and returns the shifts it assigned
func (c *Client) AutoAssign(ctx context.Context, req *AutoAssignRequest) ([]model.Shift, error) {
	query := url.Values{
		"branch_id":                    {req.Branch},
		"population_type":              {string(req.PopulationType)},
		"overwrite_manual_assignments": {strconv.FormatBool(req.OverwriteManualAssignments)},
	}
	constraints := req.Constraints
	if len(constraints) == 0 {
		constraints = json.RawMessage("[]")
	}
	body := autoAssignBody{GuardIDs: req.GuardIDs, ShiftIDs: req.ShiftIDs, Constraints: constraints}

	var assigned []model.Shift
	if err := c.do(ctx, http.MethodPost, "assignments_model/", query, body, &assigned); err != nil {
		return nil, fmt.Errorf("failed to auto assign: %w", err)
	}
	return assigned, nil
}

// DefaultConstraints fetches the default constraint sets of the assignment model, keyed by
// model name such as "HogerRegular"
func (c *Client) DefaultConstraints(ctx context.Context) (map[string]json.RawMessage, error) {
	var constraints map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, "assignments_model/default_constraints/", nil, nil, &constraints); err != nil {
		return nil, fmt.Errorf("failed to get default constraints: %w", err)
	}
	return constraints, nil
}
