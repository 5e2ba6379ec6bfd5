package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/services"
)

// AuditCmd creates the audit command
func AuditCmd(app *AppContext) *cobra.Command {
	var (
		flags           filterFlags
		from, to        string
		weekend         bool
		constraintsPath string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check a branch's assignments against restrictions and constraints (managers)",
		Long: `Checks the branch's persisted shifts between --from and --to for guards holding a shift on a
day they declared unavailable, guards holding two shifts on one day, and breaches of the
constraint set. The range defaults to the current month.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := flags.resolve(app.Snapshot)
			params := services.AuditParams{
				Branch:         f.Branch,
				PopulationType: f.PopulationType,
				Weekend:        weekend,
			}

			today := model.NewDate(time.Now())
			first := model.DateOf(today.Year(), today.Month(), 1)
			var err error
			if params.From, err = dateFlag(from, first); err != nil {
				return err
			}
			if params.To, err = dateFlag(to, model.NewDate(first.AddDate(0, 1, -1))); err != nil {
				return err
			}
			if params.Constraints, err = readConstraints(constraintsPath); err != nil {
				return err
			}

			result, err := services.AuditRoster(app.Snapshot, app.Logger, params)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\nRoster %s to %s: %d shifts, %d unfilled\n\n",
				params.From, params.To, len(result.State.Slots), len(result.Unfilled))

			if len(result.Violations) == 0 {
				fmt.Fprintln(w, "No violations.")
			} else {
				fmt.Fprintf(w, "⚠️  %d violations:\n", len(result.Violations))
				for _, v := range result.Violations {
					shift := result.State.Slots[v.SlotIndex].Shift
					fmt.Fprintf(w, "  %s  %s  %-12s %s\n", shift.Date, shift.ID, v.CriterionName, v.Description)
				}
			}

			if len(result.Skipped) > 0 {
				fmt.Fprintf(w, "\nNot checked: %v\n", result.Skipped)
			}
			fmt.Fprintln(w)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD (defaults to the first of this month)")
	cmd.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD (defaults to the end of this month)")
	cmd.Flags().BoolVar(&weekend, "weekend", false, "Use the weekend default constraints")
	cmd.Flags().StringVar(&constraintsPath, "constraints", "", "JSON file replacing the default constraints")
	return cmd
}
