package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/services"
	"github.com/jakechorley/guard-roster/pkg/db"
)

// AutoAssignCmd creates the autoAssign command
func AutoAssignCmd(app *AppContext) *cobra.Command {
	var (
		flags           filterFlags
		from, to        string
		weekend         bool
		overwrite       bool
		constraintsPath string
	)

	cmd := &cobra.Command{
		Use:   "autoAssign",
		Short: "Ask the assignment model to fill a branch's shifts (managers)",
		Long: `Hands the branch's guards and persisted shifts between --from and --to to the backend's
assignment model. The range defaults to today until two months from today.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Assigner == nil {
				return fmt.Errorf("auto assignment is not available: no assignment model configured")
			}

			f := flags.resolve(app.Snapshot)
			params := services.AutoAssignParams{
				Branch:         f.Branch,
				PopulationType: f.PopulationType,
				Weekend:        weekend,
				Overwrite:      overwrite,
			}

			today := model.NewDate(time.Now())
			var err error
			if params.From, err = dateFlag(from, today); err != nil {
				return err
			}
			if params.To, err = dateFlag(to, model.NewDate(today.AddDate(0, 2, 0))); err != nil {
				return err
			}

			if params.Constraints, err = readConstraints(constraintsPath); err != nil {
				return err
			}

			assigned, err := services.RequestAutoAssign(app.Ctx, app.Assigner, app.Snapshot, app.Logger, params)
			if err != nil {
				return err
			}
			if err := app.Snapshot.Refresh(app.Ctx, db.CollectionShifts); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Auto assignment finished: %d shifts assigned\n\n", len(assigned))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD (defaults to two months from today)")
	cmd.Flags().BoolVar(&weekend, "weekend", false, "Use the weekend default constraints")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Reassign shifts that were assigned by hand")
	cmd.Flags().StringVar(&constraintsPath, "constraints", "", "JSON file replacing the default constraints")
	return cmd
}

// readConstraints reads a JSON constraint set, nil when path is empty
func readConstraints(path string) (json.RawMessage, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read constraints: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("constraints file %s is not valid JSON", path)
	}
	return data, nil
}

func dateFlag(value string, fallback model.Date) (model.Date, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := model.ParseDate(value)
	if err != nil {
		return model.Date{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return d, nil
}
