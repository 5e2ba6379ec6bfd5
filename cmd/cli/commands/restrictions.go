package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/restrictions"
	"github.com/jakechorley/guard-roster/pkg/core/services"
	"github.com/jakechorley/guard-roster/pkg/db"
)

// RestrictionsCmd creates the restrictions command group
func RestrictionsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restrictions",
		Short: "Show and change declared unavailability",
	}
	cmd.AddCommand(showRestrictionsCmd(app))
	cmd.AddCommand(submitRestrictionsCmd(app))
	cmd.AddCommand(deleteRestrictionsCmd(app))
	cmd.AddCommand(Offline(&cobra.Command{
		Use:   "reasons",
		Short: "List the suggested restriction reasons",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, r := range restrictions.Reasons {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
		},
	}))
	return cmd
}

func showRestrictionsCmd(app *AppContext) *cobra.Command {
	var populationType string
	cmd := &cobra.Command{
		Use:   "show [guard_id]",
		Short: "Show a guard's restrictions (defaults to you)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guardID, err := guardArg(app, args)
			if err != nil {
				return err
			}
			list, err := services.GuardRestrictions(app.Snapshot, guardID, model.PopulationType(populationType))
			if err != nil {
				return err
			}
			printRestrictions(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().StringVar(&populationType, "population-type", "", "Population type (defaults to the guard's first)")
	return cmd
}

func submitRestrictionsCmd(app *AppContext) *cobra.Command {
	var populationType, reason string
	cmd := &cobra.Command{
		Use:   "submit <date>...",
		Short: "Toggle your restriction on each date and submit the result",
		Long: `Each date is toggled: a day you already declared is released, a free day is added
with the given reason. The whole list is then submitted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := app.Snapshot.CurrentUser()
			if user == nil {
				return services.ErrNotLoggedIn
			}
			draft, err := services.NewRestrictionDraft(user, model.PopulationType(populationType))
			if err != nil {
				return err
			}

			for i := range args {
				date, err := parseDateArg(args, i)
				if err != nil {
					return err
				}
				services.ToggleRestriction(draft, date)
			}

			submitted, err := services.SubmitRestrictions(app.Ctx, app.Database, app.Logger, draft, reason)
			if err != nil {
				return err
			}
			if err := app.Snapshot.Refresh(app.Ctx, db.CollectionCurrentUser, db.CollectionGuards); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Restrictions submitted!\n")
			printRestrictions(cmd.OutOrStdout(), restrictions.Sorted(restrictions.Merge(submitted, nil)))
			return nil
		},
	}
	cmd.Flags().StringVar(&populationType, "population-type", "", "Population type (defaults to your first)")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason attached to new restrictions")
	return cmd
}

func deleteRestrictionsCmd(app *AppContext) *cobra.Command {
	var populationType, reason string
	cmd := &cobra.Command{
		Use:   "delete <guard_id> <date>...",
		Short: "Delete a guard's restrictions on the given dates (managers)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := make([]model.Restriction, 0, len(args)-1)
			for i := 1; i < len(args); i++ {
				date, err := parseDateArg(args, i)
				if err != nil {
					return err
				}
				targets = append(targets, model.Restriction{Date: date, Reason: reason})
			}

			remaining, err := services.DeleteRestrictions(app.Ctx, app.Database, app.Snapshot, app.Logger,
				args[0], model.PopulationType(populationType), targets)
			if err != nil {
				return err
			}
			if err := app.Snapshot.Refresh(app.Ctx, db.CollectionGuards); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Restrictions deleted!\n")
			printRestrictions(cmd.OutOrStdout(), restrictions.Sorted(restrictions.Merge(remaining, nil)))
			return nil
		},
	}
	cmd.Flags().StringVar(&populationType, "population-type", "", "Population type (defaults to the guard's first)")
	cmd.Flags().StringVar(&reason, "reason", "", "Only delete restrictions with this reason")
	return cmd
}

// guardArg returns args[0] or the current user's id
func guardArg(app *AppContext, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	user := app.Snapshot.CurrentUser()
	if user == nil {
		return "", services.ErrNotLoggedIn
	}
	return user.ID, nil
}

func printRestrictions(w io.Writer, list []model.Restriction) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No restrictions.")
		return
	}
	fmt.Fprintf(w, "\n%d restrictions:\n", len(list))
	for _, r := range list {
		reason := r.Reason
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(w, "  %s  %s\n", r.Date.Format("2006-01-02 (Monday)"), reason)
	}
	fmt.Fprintln(w)
}
