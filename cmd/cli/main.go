package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/cmd/cli/commands"
	"github.com/jakechorley/guard-roster/internal/config"
	"github.com/jakechorley/guard-roster/pkg/utils/logging"
	"github.com/jakechorley/guard-roster/pkg/utils/session"
)

var (
	env     string
	verbose bool
)

func main() {
	app := &commands.AppContext{Ctx: context.Background()}

	rootCmd := &cobra.Command{
		Use:   "roster",
		Short: "Guard roster CLI - view and manage guard shifts",
		Long:  `A CLI tool for viewing the guard calendar, managing restrictions, and assigning shifts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app, cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.LoginCmd(app))
	rootCmd.AddCommand(commands.LogoutCmd(app))
	rootCmd.AddCommand(commands.WeekCmd(app))
	rootCmd.AddCommand(commands.MonthCmd(app))
	rootCmd.AddCommand(commands.GuardsCmd(app))
	rootCmd.AddCommand(commands.MyShiftsCmd(app))
	rootCmd.AddCommand(commands.RestrictionsCmd(app))
	rootCmd.AddCommand(commands.ConflictsCmd(app))
	rootCmd.AddCommand(commands.RoleCmd(app))
	rootCmd.AddCommand(commands.CreateShiftCmd(app))
	rootCmd.AddCommand(commands.AssignCmd(app))
	rootCmd.AddCommand(commands.AutoAssignCmd(app))
	rootCmd.AddCommand(commands.AuditCmd(app))
	rootCmd.AddCommand(commands.ExportCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, session store and, unless the command is offline, the snapshot
func initApp(app *commands.AppContext, cmd *cobra.Command) error {
	var err error
	app.Env = env

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Info("Starting application", zap.String("environment", env), zap.String("command", cmd.CommandPath()))

	app.Sessions, err = session.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	if !commands.NeedsData(cmd) {
		return nil
	}

	// Load configuration
	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := app.InitOptions(); err != nil {
		return err
	}
	app.Logger.Debug("Configuration loaded successfully", zap.String("source", app.Cfg.Source))

	if err := app.Connect(); err != nil {
		return err
	}
	app.Logger.Info("Snapshot loaded")
	return nil
}
