package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/clients/sheetsclient"
	"github.com/jakechorley/guard-roster/pkg/core/filter"
	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// RosterExporter defines the spreadsheet operation needed to publish a roster
type RosterExporter interface {
	ExportRoster(ctx context.Context, spreadsheetID string, roster *sheetsclient.Roster) error
}

// ExportRoster projects weeks consecutive weeks starting with the week of anchor and writes one
// row per slot, empty rounds included, to a tab named after the date range
func ExportRoster(
	ctx context.Context,
	exporter RosterExporter,
	catalog Catalog,
	opts ViewOptions,
	logger *zap.Logger,
	spreadsheetID string,
	anchor model.Date,
	weeks int,
	f filter.Filters,
) (*sheetsclient.Roster, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if weeks <= 0 {
		return nil, fmt.Errorf("week count must be positive, got %d", weeks)
	}

	var days []DayView
	for i := 0; i < weeks; i++ {
		week, err := WeekView(catalog, opts, logger, anchor.AddDays(7*i), f)
		if err != nil {
			return nil, err
		}
		days = append(days, week.Days...)
	}

	roster := BuildRoster(catalog, days, f)

	logger.Debug("Exporting roster", zap.String("title", roster.Title), zap.Int("rows", len(roster.Rows)))
	if err := exporter.ExportRoster(ctx, spreadsheetID, roster); err != nil {
		return nil, fmt.Errorf("failed to export roster: %w", err)
	}
	return roster, nil
}

// BuildRoster flattens projected days into spreadsheet rows
func BuildRoster(catalog Catalog, days []DayView, f filter.Filters) *sheetsclient.Roster {
	shiftTypeNames := make(map[string]string)
	for _, st := range catalog.ShiftTypes() {
		shiftTypeNames[st.ID] = st.Name
	}
	branchNames := make(map[string]string)
	for _, b := range catalog.Branches() {
		branchNames[b.ID] = b.Name
	}
	guardNames := make(map[string]string)
	for _, g := range catalog.Guards() {
		guardNames[g.ID] = g.Name
	}

	roster := &sheetsclient.Roster{}
	for _, day := range days {
		for _, slot := range day.Slots {
			name, ok := shiftTypeNames[slot.ShiftType]
			if !ok {
				name = slot.ShiftType
			}
			roster.Rows = append(roster.Rows, sheetsclient.RosterRow{
				Date:      slot.Date,
				ShiftType: name,
				Order:     slot.Order,
				Guard:     guardNames[slot.AssignedUserID],
				Branch:    branchNames[slot.Branch],
			})
		}
	}

	if len(days) > 0 {
		roster.Title = fmt.Sprintf("%s - %s", days[0].Date.Key(), days[len(days)-1].Date.Key())
		if name, ok := branchNames[f.Branch]; ok {
			roster.Title = name + " " + roster.Title
		}
	}
	return roster
}
