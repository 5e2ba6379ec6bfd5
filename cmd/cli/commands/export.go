package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/internal/config"
	"github.com/jakechorley/guard-roster/pkg/clients/sheetsclient"
	"github.com/jakechorley/guard-roster/pkg/core/services"
)

// ExportCmd creates the export command
func ExportCmd(app *AppContext) *cobra.Command {
	var (
		flags   filterFlags
		sheetID string
		weeks   int
	)

	cmd := &cobra.Command{
		Use:   "export [date]",
		Short: "Write the roster of the weeks starting with date's week to a Google Sheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor, err := parseDateArg(args, 0)
			if err != nil {
				return err
			}
			if sheetID == "" {
				sheetID = app.Cfg.ExportSheetID
			}
			if sheetID == "" {
				return fmt.Errorf("no spreadsheet: pass --sheet or set exportSheetID")
			}

			oauthCfg, err := config.LoadExportClient(app.Env)
			if err != nil {
				return fmt.Errorf("failed to load OAuth client config: %w", err)
			}
			app.Logger.Info("Initializing sheets client")
			client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to create sheets client: %w", err)
			}

			roster, err := services.ExportRoster(app.Ctx, client, app.Snapshot, app.Options, app.Logger,
				sheetID, anchor, weeks, flags.resolve(app.Snapshot))
			if err != nil {
				return err
			}

			app.Logger.Info("Roster exported", zap.String("tab", roster.Title), zap.Int("rows", len(roster.Rows)))
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Exported %d rows to tab %q\n\n", len(roster.Rows), roster.Title)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&sheetID, "sheet", "", "Spreadsheet id (defaults to exportSheetID)")
	cmd.Flags().IntVar(&weeks, "weeks", 1, "Number of weeks to export")
	return cmd
}
