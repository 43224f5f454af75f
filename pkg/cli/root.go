package cli

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/quiverhq/quiver/pkg/observability"
)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(args []string) error
	Subcommands map[string]*Command
	Flags       *flag.FlagSet
}

// NewRootCommand creates the root command
func NewRootCommand() *Command {
	root := &Command{
		Name:        "quiver",
		Description: "Quiver - A GraphQL Schema Registry CLI",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("quiver", flag.ExitOnError),
	}

	// Add subcommands; schema:check is a historical alias for service:check
	check := newCheckCommand()
	root.Subcommands["service:check"] = check
	root.Subcommands["schema:check"] = check
	root.Subcommands["service:push"] = newPushCommand()
	root.Subcommands["schema:download"] = newDownloadCommand()

	return root
}

// Execute runs the command
func (c *Command) Execute() error {
	args := os.Args[1:]
	if len(args) == 0 {
		return c.usage()
	}

	// Check for help flag
	if args[0] == "-h" || args[0] == "--help" {
		return c.usage()
	}

	// Check for subcommand
	if subcmd, ok := c.Subcommands[args[0]]; ok {
		return subcmd.Run(args[1:])
	}

	return fmt.Errorf("unknown command: %s", args[0])
}

// usage prints the command usage
func (c *Command) usage() error {
	fmt.Printf("Usage: %s <command> [args]\n\n", c.Name)
	fmt.Printf("Commands:\n")
	names := make([]string, 0, len(c.Subcommands))
	for name := range c.Subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := c.Subcommands[name]
		desc := cmd.Description
		if name != cmd.Name {
			desc = fmt.Sprintf("Alias for %s", cmd.Name)
		}
		fmt.Printf("  %-17s %s\n", name, desc)
	}
	return nil
}

// newLogger builds the CLI logger; level comes from QUIVER_LOG_LEVEL.
func newLogger() *observability.Logger {
	level := observability.ParseLogLevel(os.Getenv("QUIVER_LOG_LEVEL"))
	return observability.NewLogger(level, os.Stderr)
}
