package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"object-fitter/internal/commands"
	"object-fitter/internal/logger"
)

const (
	prompt = "> "
	// ANSI palette indices for result messages.
	infoColor  = "2"
	errorColor = "1"
)

// Terminal is the interactive command line of the tool. Every submitted line is logged,
// tokenized and run through the command registry; results are printed as info or error
// messages. Errors are reported and the terminal keeps reading.
type Terminal struct {
	log    *logger.Logger
	reg    *commands.Registry
	out    *termenv.Output
	Prompt bool // print "> " before reading each line
}

// New returns a Terminal that logs lines to log, runs them through reg and writes to out.
func New(log *logger.Logger, reg *commands.Registry, out *termenv.Output) *Terminal {
	return &Terminal{log: log, reg: reg, out: out}
}

// Info prints a success or informational message.
func (t *Terminal) Info(msg string) {
	fmt.Fprintln(t.out, t.out.String(msg).Foreground(t.out.Color(infoColor)))
}

// Error prints err as an error message and logs it.
func (t *Terminal) Error(err error) {
	msg := "Error! " + err.Error()
	t.log.Log(msg)
	fmt.Fprintln(t.out, t.out.String(msg).Foreground(t.out.Color(errorColor)).Bold())
}

// Println prints plain text, e.g. listings.
func (t *Terminal) Println(text string) {
	fmt.Fprintln(t.out, text)
}

// Exec runs one line. It returns true when the line asks the terminal to stop.
func (t *Terminal) Exec(line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	t.log.Log(line)
	if line == "exit" || line == "quit" {
		return true
	}
	args, ok, err := commands.Parse(line)
	if err != nil {
		t.Error(err)
		return false
	}
	if !ok {
		return false
	}
	if err := t.reg.Execute(args); err != nil {
		t.Error(err)
	}
	return false
}

// Run reads lines from in until EOF, an exit/quit line, or ctx is done.
func (t *Terminal) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		if t.Prompt {
			fmt.Fprint(t.out, prompt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			if t.Exec(line) {
				return nil
			}
		}
	}
}
