package commands

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (authenticate once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against the same
database connection and Google token. Type 'exit' or 'quit' to leave, 'help' for the command list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "\n🚀 Starting interactive session...")
			fmt.Fprintln(w, "Type 'help' for available commands, 'exit' or 'quit' to leave")

			commands := siblingCommands(cmd)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(w, "> ")
				if !scanner.Scan() {
					break
				}
				if done := runLine(w, commands, scanner.Text()); done {
					fmt.Fprintln(w, "👋 Goodbye!")
					return nil
				}
				if err := app.Ctx.Err(); err != nil {
					return err
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}
			return nil
		},
	}
}

func siblingCommands(cmd *cobra.Command) map[string]*cobra.Command {
	commands := make(map[string]*cobra.Command)
	for _, sub := range cmd.Parent().Commands() {
		switch sub.Name() {
		case "interactive", "completion", "help", "serve":
			continue
		}
		commands[sub.Name()] = sub
	}
	return commands
}

// runLine executes one line of input and reports whether the session should end
func runLine(w io.Writer, commands map[string]*cobra.Command, line string) bool {
	parts, err := parseCommandLine(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintf(w, "❌ Error parsing command: %v\n\n", err)
		return false
	}
	if len(parts) == 0 {
		return false
	}

	name, args := parts[0], parts[1:]
	switch name {
	case "exit", "quit":
		return true
	case "help":
		printInteractiveHelp(w, commands)
		return false
	}

	target, ok := commands[name]
	if !ok {
		fmt.Fprintf(w, "❌ Unknown command: %s (type 'help' for available commands)\n\n", name)
		return false
	}

	// Flags keep their values between runs unless reset
	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	})

	// RunE is called directly so PersistentPreRunE does not set the app up again
	if err := target.ParseFlags(args); err != nil {
		fmt.Fprintf(w, "❌ Error parsing flags: %v\n\n", err)
		return false
	}
	args = target.Flags().Args()
	if target.Args != nil {
		if err := target.Args(target, args); err != nil {
			fmt.Fprintf(w, "❌ Error: %v\n\n", err)
			return false
		}
	}
	if target.RunE != nil {
		if err := target.RunE(target, args); err != nil {
			fmt.Fprintf(w, "❌ Error: %v\n\n", err)
		}
	}
	return false
}

func printInteractiveHelp(w io.Writer, commands map[string]*cobra.Command) {
	fmt.Fprintln(w, "\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "  %-45s %s\n", commands[name].Use, commands[name].Short)
	}

	fmt.Fprintf(w, "\n  %-45s %s\n", "help", "Show this help message")
	fmt.Fprintf(w, "  %-45s %s\n\n", "exit, quit", "Exit the interactive session")
}

// parseCommandLine splits a line into arguments. Single and double quotes group words.
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var quote rune
	quoted := false

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			quoted = true
		case unicode.IsSpace(r):
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", quote)
	}
	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}

	return args, nil
}
