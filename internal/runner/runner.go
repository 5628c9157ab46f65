// Package runner provides a simple API to execute Stop programs from
// source text or files: the complete pipeline of read → parse →
// evaluate.
package runner

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/oeed/stop/internal/builtins"
	"github.com/oeed/stop/internal/eval"
	"github.com/oeed/stop/internal/parser"
	"github.com/oeed/stop/internal/scope"
)

// Options configures a single run of a Stop program.
type Options struct {
	// Output receives everything print() writes. Defaults to os.Stdout.
	Output io.Writer
	// Input is read one line at a time by input(). Defaults to os.Stdin.
	Input io.Reader
	// Logger receives one Debug-level event per pipeline stage. Pass
	// zerolog.Nop() (the zero value) to discard them.
	Logger zerolog.Logger
}

// RunFile reads filePath and runs it with Run. Read failures are wrapped
// with the file path for context.
func RunFile(filePath string, opts Options) error {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read file %q", filePath)
	}
	return Run(string(source), opts)
}

// Run parses and evaluates source, seeding the program's global scope
// with the standard library. Parse errors and evaluation errors surface
// unwrapped (as *token.Error, *ast.ParseError, or *value.RuntimeError)
// so callers such as internal/diagnostic can branch on their concrete
// type; only the outer stages (file reads) are wrapped with
// github.com/pkg/errors for additional context.
func Run(source string, opts Options) error {
	logger := opts.Logger
	logger.Debug().Int("bytes", len(source)).Msg("parsing source")

	statements, err := parser.Parse(source)
	if err != nil {
		return err
	}
	logger.Debug().Int("statements", len(statements)).Msg("parsed program")

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	input := opts.Input
	if input == nil {
		input = os.Stdin
	}

	evaluator := eval.New(func(global *scope.Scope) {
		builtins.Register(global, output, input)
	}, logger)

	if err := evaluator.Run(statements); err != nil {
		return err
	}
	logger.Debug().Msg("evaluation complete")
	return nil
}
