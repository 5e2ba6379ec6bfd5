package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/services"
	"github.com/jakechorley/guard-roster/pkg/db"
)

// CreateShiftCmd creates the createShift command
func CreateShiftCmd(app *AppContext) *cobra.Command {
	var branch, assignee string
	var numDays int
	cmd := &cobra.Command{
		Use:   "createShift <date> <shift_type_id> <round>",
		Short: "Persist an empty round of the calendar as a shift (admins)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(args, 0)
			if err != nil {
				return err
			}
			round, err := strconv.Atoi(args[2])
			if err != nil || round < 1 {
				return fmt.Errorf("round must be a positive number")
			}

			created, err := services.MaterializeSlot(app.Ctx, app.Database, app.Snapshot, app.Options.Holidays, app.Logger,
				services.MaterializeRequest{
					Slot:       model.Shift{Date: date, ShiftType: args[1], Order: round - 1},
					Branch:     branch,
					AssigneeID: assignee,
					NumDays:    numDays,
				})
			if err != nil {
				return err
			}
			if err := app.Snapshot.Refresh(app.Ctx, db.CollectionShifts); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\n✓ Shift created successfully!\n\n")
			fmt.Fprintf(w, "Shift ID: %s\n", created.ID)
			fmt.Fprintf(w, "Date:     %s\n", created.Date)
			fmt.Fprintf(w, "Score:    regular %.2f, weekend %.2f\n\n", created.Score.RegularScore, created.Score.WeekendScore)
			return nil
		},
	}
	cmd.Flags().StringVar(&branch, "branch", "", "Branch id")
	cmd.Flags().StringVar(&assignee, "assign", "", "Guard id to assign")
	cmd.Flags().IntVar(&numDays, "days", 1, "Number of days the shift covers")
	return cmd
}

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <shift_id> <guard_id>",
		Short: "Assign a guard to a shift (managers)",
		Long: `Assigns the guard to the shift, replacing its current assignee. Restrictions and default
constraints the assignment breaks are printed as warnings, they do not block it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			violations, err := services.CheckAssignment(app.Snapshot, app.Logger, args[0], args[1], nil)
			if err != nil {
				app.Logger.Debug("Assignment not checked", zap.Error(err))
			}
			for _, v := range violations {
				fmt.Fprintf(w, "⚠️  %s: %s\n", v.CriterionName, v.Description)
			}

			if err := services.AssignShift(app.Ctx, app.Database, app.Snapshot, app.Logger, args[0], args[1]); err != nil {
				return err
			}
			if err := app.Snapshot.Refresh(app.Ctx, db.CollectionShifts); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Shift %s assigned\n", args[0])
			return nil
		},
	}
}
