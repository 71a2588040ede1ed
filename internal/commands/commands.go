package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/pflag"
)

const prefix = "cmd"

// ErrHelp is returned by Execute when the user asked for a command's flag help.
var ErrHelp = pflag.ErrHelp

// Handler declares a command's flags on fs and returns the function to run once the
// arguments are parsed. Positional arguments are available through fs.Args().
// Every invocation gets a fresh flag set, so values never leak between runs.
type Handler func(fs *pflag.FlagSet) func() error

// Command is a subcommand with a one-line usage string.
type Command struct {
	Name    string
	Usage   string
	Handler Handler
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
	// FlagOutput receives pflag's usage and parse messages. Defaults to io.Discard.
	FlagOutput io.Writer
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command), FlagOutput: io.Discard}
}

// Register adds a subcommand. name is the first token of a command line (e.g. "fit").
func (r *Registry) Register(name, usage string, h Handler) {
	r.cmds[name] = &Command{Name: name, Usage: usage, Handler: h}
}

// Parse tokenizes a terminal line with shell quoting rules, so names with spaces can be
// given as "left wall". An optional leading "cmd" word is dropped. ok is false for blank lines.
func Parse(line string) (args []string, ok bool, err error) {
	line = strings.TrimSpace(line)
	if f := strings.Fields(line); len(f) > 0 && f[0] == prefix {
		line = strings.TrimSpace(line[len(prefix):])
	}
	if line == "" {
		return nil, false, nil
	}
	args, err = shellwords.Parse(line)
	if err != nil {
		return nil, false, fmt.Errorf("parse %q: %w", line, err)
	}
	return args, len(args) > 0, nil
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns an error for unknown command, parse error, or from the command itself.
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand")
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(r.FlagOutput)
	run := cmd.Handler(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return fmt.Errorf("%s: %w\n%s", name, ErrHelp, fs.FlagUsages())
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return run()
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Usage returns one line per command: name followed by its usage string.
func (r *Registry) Usage() string {
	var b strings.Builder
	for _, n := range r.Names() {
		fmt.Fprintf(&b, "%-8s %s\n", n, r.cmds[n].Usage)
	}
	return b.String()
}
