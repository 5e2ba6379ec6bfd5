package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/guard-roster/pkg/core/roles"
)

// RoleCmd creates the role command group
func RoleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Inspect role tokens",
	}

	var strict bool
	parse := Offline(&cobra.Command{
		Use:   "parse <token>",
		Short: "Decode a role token such as role:manager:branch=b1&population_type=...",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strict {
				role, err := roles.ValidateRole(args[0])
				if err != nil {
					return err
				}
				printRole(cmd.OutOrStdout(), role)
				return nil
			}
			printRole(cmd.OutOrStdout(), roles.ParseRole(args[0]))
			return nil
		},
	})
	parse.Flags().BoolVar(&strict, "strict", false, "Fail on tokens that do not describe a usable role")
	cmd.AddCommand(parse)

	return cmd
}

func printRole(w io.Writer, role roles.Role) {
	switch role.Kind {
	case roles.KindAdmin:
		fmt.Fprintln(w, "admin")
	case roles.KindManager:
		fmt.Fprintf(w, "manager of branch %q, population type %q\n", role.Branch, role.PopulationType)
	default:
		fmt.Fprintln(w, "not a role")
		return
	}
	fmt.Fprintf(w, "token: %s\n", role)
}
