package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/guard-roster/pkg/utils/session"
)

// LoginCmd creates the login command
func LoginCmd(app *AppContext) *cobra.Command {
	return Offline(&cobra.Command{
		Use:   "login <token>",
		Short: "Save the backend access token for this environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := &session.Session{AccessToken: args[0], SavedAt: time.Now()}
			if !sess.Valid(time.Now()) {
				return fmt.Errorf("token is not a valid unexpired JWT")
			}
			if err := app.Sessions.Save(app.Env, sess); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in to %s\n", app.Env)
			return nil
		},
	})
}

// LogoutCmd creates the logout command
func LogoutCmd(app *AppContext) *cobra.Command {
	return Offline(&cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token for this environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Delete(app.Env); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged out of %s\n", app.Env)
			return nil
		},
	})
}
