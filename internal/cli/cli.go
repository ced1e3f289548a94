// Package cli holds what the fractatoe commands share: logging setup, exit
// codes and human-readable numbers.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/marben/fractatoe"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Flags common to every command.
type Flags struct {
	Verbose bool
}

// Register adds the common flags to fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "log progress at debug level")
}

// SetupLogging routes the fractatoe logger to w as text records.
func (f *Flags) SetupLogging(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if f.Verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	fractatoe.SetLogger(l)
	return l
}

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// Usage marks err as a command-line usage mistake.
func Usage(err error) error {
	if err == nil {
		return nil
	}
	return usageError{err}
}

// ExactArgs is cobra.ExactArgs reporting a usage error.
func ExactArgs(n int) cobra.PositionalArgs {
	check := cobra.ExactArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		return Usage(check(cmd, args))
	}
}

// Command applies the settings every fractatoe command shares: errors are
// printed once by Main, and flag errors count as usage errors.
func Command(cmd *cobra.Command) *cobra.Command {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return Usage(err)
	})
	return cmd
}

// ExitCode maps an error returned by a command to its exit status: usage and
// configuration errors are 2, every other failure is 1.
func ExitCode(err error) int {
	var u usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &u), errors.Is(err, fractatoe.ErrConfig):
		return ExitUsage
	}
	return ExitFailure
}

// Report prints err for the named command to w and returns its exit code.
func Report(w io.Writer, name string, err error) int {
	if err == nil {
		return ExitOK
	}
	fmt.Fprintf(w, "%s: %v\n", name, err)
	if errors.As(err, new(usageError)) {
		fmt.Fprintf(w, "Run '%s --help' for usage.\n", name)
	}
	return ExitCode(err)
}

var printer = message.NewPrinter(language.English)

// Count formats n with thousands separators.
func Count[T ~int | ~int64 | ~uint64](n T) string {
	return printer.Sprintf("%d", n)
}

// Percent formats done/total as a percentage with one decimal.
func Percent(done, total int) string {
	if total <= 0 {
		return "100.0%"
	}
	return printer.Sprintf("%.1f%%", 100*float64(done)/float64(total))
}
