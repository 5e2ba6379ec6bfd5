package sheetsclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// RosterRow is one slot of an exported roster
type RosterRow struct {
	Date      model.Date
	ShiftType string // Shift type name
	Order     int    // Zero-based round, shown one-based
	Guard     string // Assigned guard name, empty when unfilled
	Branch    string // Branch name, empty when unassigned
}

// Roster is the content of one exported tab
type Roster struct {
	Title string
	Rows  []RosterRow
}

var rosterHeader = []interface{}{"Date", "Day", "Shift type", "Round", "Guard", "Branch"}

// ExportRoster writes a roster to its own tab, creating the tab if needed and replacing
// the content of an existing tab with the same title
func (c *Client) ExportRoster(ctx context.Context, spreadsheetID string, roster *Roster) error {
	if roster.Title == "" {
		return fmt.Errorf("roster title is required")
	}

	existing, err := c.findSheet(ctx, spreadsheetID, roster.Title)
	if err != nil {
		return err
	}

	if existing == nil {
		c.logger.Debug("Creating roster tab", zap.String("title", roster.Title))
		if _, err := c.CreateSheet(ctx, spreadsheetID, roster.Title); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	} else {
		c.logger.Debug("Overwriting existing roster tab", zap.String("title", roster.Title))
		if err := c.ClearSheet(ctx, spreadsheetID, roster.Title); err != nil {
			return err
		}
	}

	if err := c.AppendRows(ctx, spreadsheetID, quoteTitle(roster.Title), rosterValues(roster.Rows)); err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}

	c.logger.Info("Roster exported",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.String("title", roster.Title),
		zap.Int("rows", len(roster.Rows)))
	return nil
}

// rosterValues lays out the header followed by one row per slot
func rosterValues(rows []RosterRow) [][]interface{} {
	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, rosterHeader)
	for _, row := range rows {
		values = append(values, []interface{}{
			row.Date.Key(),
			row.Date.Format("Mon"),
			row.ShiftType,
			row.Order + 1,
			row.Guard,
			row.Branch,
		})
	}
	return values
}
