package commands

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (load once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against one loaded
snapshot. Type 'refresh' to reload it from the backend.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\n🚀 Starting interactive session...")
			fmt.Fprintln(out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Get all sibling commands (excluding interactive itself)
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range cmd.Parent().Commands() {
				switch subCmd.Name() {
				case "interactive", "completion", "help", "serve":
				default:
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}

				parts, err := parseCommandLine(strings.TrimSpace(scanner.Text()))
				if err != nil {
					fmt.Fprintf(out, "❌ Error parsing command: %v\n\n", err)
					continue
				}
				if len(parts) == 0 {
					continue
				}
				cmdName := parts[0]

				switch cmdName {
				case "exit", "quit":
					fmt.Fprintln(out, "👋 Goodbye!")
					return nil
				case "help":
					printInteractiveHelp(out, commands)
					continue
				case "refresh":
					if err := app.Snapshot.Refresh(app.Ctx); err != nil {
						fmt.Fprintf(out, "❌ Error: %v\n\n", err)
					} else {
						fmt.Fprintln(out, "✓ Reloaded")
					}
					continue
				}

				root, exists := commands[cmdName]
				if !exists {
					fmt.Fprintf(out, "❌ Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}
				if err := runInteractive(root, parts[1:]); err != nil {
					fmt.Fprintf(out, "❌ Error: %v\n\n", err)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}
			return nil
		},
	}
}

// runInteractive runs the command's RunE directly, bypassing Execute so that
// PersistentPreRunE does not reload the application
func runInteractive(root *cobra.Command, args []string) error {
	target, rest, err := root.Find(args)
	if err != nil {
		return err
	}

	// Reset flags left over from the previous run
	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		flag.Value.Set(flag.DefValue)
	})

	if err := target.ParseFlags(rest); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}
	rest = target.Flags().Args()

	if target.Args != nil {
		if err := target.Args(target, rest); err != nil {
			return err
		}
	}

	switch {
	case target.RunE != nil:
		return target.RunE(target, rest)
	case target.Run != nil:
		target.Run(target, rest)
		return nil
	default:
		return target.Help()
	}
}

func printInteractiveHelp(w io.Writer, commands map[string]*cobra.Command) {
	fmt.Fprintln(w, "\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(w, "  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Fprintln(w, "\n  refresh                        Reload the snapshot")
	fmt.Fprintln(w, "  help                           Show this help message")
	fmt.Fprintln(w, "  exit, quit                     Exit the interactive session")
}

// parseCommandLine splits a command line into arguments, respecting quoted strings
// Supports both single and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune // 0 if not in quote, '"' or '\'' if in quote

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args, nil
}
