// Package cli provides the command-line interface adapter for Stop. It
// parses flags with cobra and delegates to the runner or the REPL.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/oeed/stop/internal/builtins"
	"github.com/oeed/stop/internal/diagnostic"
	"github.com/oeed/stop/internal/eval"
	"github.com/oeed/stop/internal/parser"
	"github.com/oeed/stop/internal/runner"
	"github.com/oeed/stop/internal/scope"
)

// Config holds the configuration for the CLI.
type Config struct {
	Args    []string  // Command-line arguments (excluding the program name)
	Output  io.Writer // Output stream for program output
	Verbose bool      // Raises the logger to Debug level
	Repl    bool      // Starts the interactive REPL instead of running a file
}

// exitError pairs a diagnostic message with the process exit code it
// maps to, so main can propagate the real code instead of a hardcoded
// failure status. ExitCode unwraps it; any other error (a usage error,
// a file-read failure) falls back to a generic failure code.
type exitError struct {
	message string
	code    int
}

func (e *exitError) Error() string { return e.message }

// ExitCode reports the process exit status that should accompany err:
// 0 for a nil error, diagnostic.ExitSyntaxError/ExitRuntimeError for an
// error produced by internal/diagnostic, or a generic failure code (1)
// for anything else (a missing file, a usage error).
func ExitCode(err error) int {
	if err == nil {
		return diagnostic.ExitSuccess
	}
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	return 1
}

// Run builds a cobra command tree from config and executes it. Setting
// Repl directly (rather than passing "repl" in Args) is for embedders
// that assemble a Config without building an argv slice.
func Run(config Config) error {
	if config.Repl {
		return runRepl(config)
	}
	root := newRootCommand(config)
	root.SetArgs(config.Args)
	return root.Execute()
}

func newRootCommand(config Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "stop [file]",
		Short:         "Run Stop programs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("usage: stop [--verbose] <file>")
			}
			return runFile(args[0], config)
		},
	}
	root.Flags().BoolVar(&config.Verbose, "verbose", config.Verbose, "log every pipeline stage at debug level")
	root.AddCommand(newReplCommand(config))
	return root
}

func newReplCommand(config Config) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive Stop session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(config)
		},
	}
}

func newLogger(config Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if config.Verbose {
		level = zerolog.DebugLevel
	}
	output := config.Output
	if output == nil {
		output = io.Discard
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func runFile(filePath string, config Config) error {
	logger := newLogger(config)
	output := config.Output
	if output == nil {
		output = io.Discard
	}

	source, readErr := os.ReadFile(filePath)
	if readErr != nil {
		return errors.Wrapf(readErr, "failed to read file %q", filePath)
	}

	err := runner.Run(string(source), runner.Options{Output: output, Logger: logger})
	if err == nil {
		return nil
	}
	message, code := diagnostic.Format(string(source), err)
	return &exitError{message: message, code: code}
}

// runRepl drives an interactive session over a single persistent
// evaluator and scope, so variables and functions defined on one line
// remain visible on the next.
func runRepl(config Config) error {
	output := config.Output
	if output == nil {
		output = io.Discard
	}
	logger := newLogger(config)

	rl, err := readline.New("stop> ")
	if err != nil {
		return errors.Wrap(err, "failed to start REPL")
	}
	defer rl.Close()

	evaluator := eval.New(func(global *scope.Scope) {
		builtins.Register(global, output, os.Stdin)
	}, logger)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "REPL read failed")
		}
		if line == "" {
			continue
		}

		statements, err := parser.Parse(line)
		if err != nil {
			message, _ := diagnostic.Format(line, err)
			fmt.Fprintln(output, message)
			continue
		}
		if err := evaluator.Run(statements); err != nil {
			message, _ := diagnostic.Format(line, err)
			fmt.Fprintln(output, message)
		}
	}
}
