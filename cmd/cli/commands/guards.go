package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/guard-roster/pkg/core/restrictions"
	"github.com/jakechorley/guard-roster/pkg/core/services"
)

// GuardsCmd creates the guards command
func GuardsCmd(app *AppContext) *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "guards",
		Short: "List guards with their scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := services.BuildGuardTable(app.Snapshot, app.Logger, flags.resolve(app.Snapshot), time.Now())
			printGuardTable(cmd.OutOrStdout(), table)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printGuardTable(w io.Writer, table *services.GuardTable) {
	fmt.Fprintf(w, "\nFound %d guards:\n\n", len(table.Rows))
	for _, row := range table.Rows {
		fmt.Fprintf(w, "- %s (%s) - %s - joined %s - regular %.2f, weekend %.2f",
			row.Name,
			row.Username,
			row.Branch,
			row.JoinDate,
			row.Score.RegularScore,
			row.Score.WeekendScore,
		)
		if row.Weighted != nil {
			fmt.Fprintf(w, " - weighted %.2f/%.2f", row.Weighted.Regular, row.Weighted.Weekend)
		}
		fmt.Fprintln(w)

		extra := make([]string, 0, len(table.Schema))
		for _, col := range table.Schema {
			if col.HideFromTable {
				continue
			}
			if v, ok := row.Extra[col.ColumnID]; ok {
				extra = append(extra, fmt.Sprintf("%s: %v", col.DisplayName, v))
			}
		}
		if len(extra) > 0 {
			fmt.Fprintf(w, "    %s\n", strings.Join(extra, ", "))
		}
	}
}

// ConflictsCmd creates the conflicts command
func ConflictsCmd(app *AppContext) *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List shifts assigned on days their guard declared unavailable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conflicts := services.Conflicts(app.Snapshot, app.Logger, flags.resolve(app.Snapshot))
			printConflicts(cmd.OutOrStdout(), app.Snapshot, conflicts)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printConflicts(w io.Writer, catalog services.Catalog, conflicts []restrictions.Conflict) {
	if len(conflicts) == 0 {
		fmt.Fprintln(w, "No conflicts.")
		return
	}

	fmt.Fprintf(w, "\n⚠️  %d conflicts:\n\n", len(conflicts))
	for _, c := range conflicts {
		reason := c.Restriction.Reason
		if reason == "" {
			reason = "no reason"
		}
		fmt.Fprintf(w, "  %s  %s #%d  %s (%s)\n",
			c.Shift.Date,
			shiftTypeName(catalog, c.Shift.ShiftType),
			c.Shift.Order+1,
			c.Guard.Name,
			reason,
		)
	}
}

// MyShiftsCmd creates the my-shifts command
func MyShiftsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "my-shifts",
		Short: "List your shifts from today on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shifts, err := services.UpcomingShifts(app.Snapshot, time.Now())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(shifts) == 0 {
				fmt.Fprintln(w, "No upcoming shifts.")
				return nil
			}
			fmt.Fprintf(w, "\nUpcoming shifts:\n")
			for i, s := range shifts {
				fmt.Fprintf(w, "  %2d. %s  %s #%d\n", i+1, s.Date.Format("2006-01-02 (Monday)"), shiftTypeName(app.Snapshot, s.ShiftType), s.Order+1)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}
