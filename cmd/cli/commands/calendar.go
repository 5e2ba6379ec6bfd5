package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/guard-roster/pkg/core/services"
)

// WeekCmd creates the week command
func WeekCmd(app *AppContext) *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "week [date]",
		Short: "Show every round of the week containing date (defaults to today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor, err := parseDateArg(args, 0)
			if err != nil {
				return err
			}

			view, err := services.WeekView(app.Snapshot, app.Options, app.Logger, anchor, flags.resolve(app.Snapshot))
			if err != nil {
				return err
			}
			printView(cmd.OutOrStdout(), app.Snapshot, view, true)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// MonthCmd creates the month command
func MonthCmd(app *AppContext) *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show the persisted shifts of a month (defaults to this month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := time.Now()
			if len(args) > 0 {
				parsed, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("month must be YYYY-MM: %w", err)
				}
				month = parsed
			}

			view, err := services.MonthView(app.Snapshot, app.Options, app.Logger, month.Year(), month.Month(), flags.resolve(app.Snapshot))
			if err != nil {
				return err
			}
			printView(cmd.OutOrStdout(), app.Snapshot, view, false)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// printView writes one block per day. Empty days are skipped unless showEmpty is set.
func printView(w io.Writer, catalog services.Catalog, view *services.CalendarView, showEmpty bool) {
	fmt.Fprintln(w)
	if view.Filters.Branch != "" || view.Filters.PopulationType != "" {
		fmt.Fprintf(w, "Branch: %s  Population: %s\n\n", branchName(catalog, view.Filters.Branch), view.Filters.PopulationType)
	}

	for _, day := range view.Days {
		if len(day.Slots) == 0 && !showEmpty {
			continue
		}

		holiday := ""
		if day.Holiday {
			holiday = " (holiday)"
		}
		fmt.Fprintf(w, "%s%s\n", day.Date.Format("Mon 2006-01-02"), holiday)

		for _, slot := range day.Slots {
			title := slot.Title
			if title == "" {
				title = "-"
			}
			marker := ""
			if slot.Conflict {
				marker = "  ⚠️  unavailable"
			}
			fmt.Fprintf(w, "  %-20s #%d  %s%s\n", shiftTypeName(catalog, slot.ShiftType), slot.Order+1, title, marker)
		}
	}

	fmt.Fprintf(w, "\n%d slots\n", view.SlotCount())
}

func shiftTypeName(catalog services.Catalog, id string) string {
	st, err := catalog.ShiftType(id)
	if err != nil {
		return id
	}
	return st.Name
}

func branchName(catalog services.Catalog, id string) string {
	if id == "" {
		return "all"
	}
	for _, b := range catalog.Branches() {
		if b.ID == id {
			return b.Name
		}
	}
	return id
}
