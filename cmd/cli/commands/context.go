package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/internal/config"
	"github.com/jakechorley/guard-roster/pkg/clients/apiclient"
	"github.com/jakechorley/guard-roster/pkg/core/calendar"
	"github.com/jakechorley/guard-roster/pkg/core/filter"
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/services"
	"github.com/jakechorley/guard-roster/pkg/db"
	"github.com/jakechorley/guard-roster/pkg/postgres"
	"github.com/jakechorley/guard-roster/pkg/utils/session"
)

// annotationOffline marks commands that run without loading the backend collections
const annotationOffline = "offline"

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Sessions *session.Store
	Database db.Database
	Assigner services.AutoAssigner // Nil when the source has no assignment model
	Snapshot *db.Snapshot
	Options  services.ViewOptions
	Logger   *zap.Logger
	Ctx      context.Context

	closers []func()
}

// Offline marks cmd as runnable without a backend connection
func Offline(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	cmd.Annotations[annotationOffline] = "true"
	return cmd
}

// NeedsData reports whether cmd reads the backend collections
func NeedsData(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationOffline] != "true"
}

// InitOptions parses the holiday rules and week start of the loaded config
func (app *AppContext) InitOptions() error {
	holidays, err := calendar.ParseHolidays(app.Cfg.HolidayRules)
	if err != nil {
		return fmt.Errorf("failed to parse holiday rules: %w", err)
	}
	app.Options = services.ViewOptions{
		WeekStart: app.Cfg.WeekStartDay(),
		Holidays:  holidays,
	}
	return nil
}

// Connect opens the configured source and loads every collection into the snapshot
func (app *AppContext) Connect() error {
	switch app.Cfg.Source {
	case config.SourcePostgres:
		app.Logger.Info("Connecting to postgres")
		pg, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL, app.Cfg.Username)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		app.closers = append(app.closers, pg.Close)

		if err := pg.RunMigrations(app.Ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Database = pg
	default:
		sess, err := app.Sessions.Load(app.Env)
		if errors.Is(err, session.ErrNoSession) {
			return fmt.Errorf("run 'roster login <token> --env %s' first: %w", app.Env, err)
		}
		if err != nil {
			return err
		}
		if !sess.Valid(time.Now()) {
			return fmt.Errorf("session for %s has expired, log in again: %w", app.Env, apiclient.ErrUnauthorized)
		}

		app.Logger.Info("Connecting to backend", zap.String("url", app.Cfg.APIBaseURL))
		client := apiclient.NewClient(app.Cfg.APIBaseURL, sess.AccessToken, app.Logger)
		app.Database = client
		app.Assigner = client
	}

	app.Snapshot = db.NewSnapshot(app.Database, app.Logger)
	if err := app.Snapshot.Refresh(app.Ctx); err != nil {
		return fmt.Errorf("failed to load collections: %w", err)
	}
	app.Logger.Debug("Collections loaded",
		zap.Int("guards", len(app.Snapshot.Guards())),
		zap.Int("shifts", len(app.Snapshot.Shifts())))
	return nil
}

// Close releases the source connection
func (app *AppContext) Close() {
	for _, c := range app.closers {
		c()
	}
	app.closers = nil
}

// filterFlags are the branch, population type and shift type selectors shared by view commands
type filterFlags struct {
	branch         string
	populationType string
	shiftType      string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.branch, "branch", "", "Branch id")
	cmd.Flags().StringVar(&f.populationType, "population-type", "", "Population type")
	cmd.Flags().StringVar(&f.shiftType, "shift-type", "", "Shift type id")
}

func (f *filterFlags) resolve(catalog services.Catalog) filter.Filters {
	return services.ResolveFilters(catalog, filter.Filters{
		Branch:         f.branch,
		PopulationType: model.PopulationType(f.populationType),
		ShiftType:      f.shiftType,
	})
}

// parseDateArg parses args[i] as a day, defaulting to today
func parseDateArg(args []string, i int) (model.Date, error) {
	if len(args) <= i {
		return model.NewDate(time.Now()), nil
	}
	d, err := model.ParseDate(args[i])
	if err != nil {
		return model.Date{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return d, nil
}
