package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oeed/stop/internal/cli"
)

func writeProgram(t *testing.T, source string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "program.stop")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestRunExecutesAFileGivenAsAPositionalArgument(t *testing.T) {
	path := writeProgram(t, `(result)print "ok" = result`)
	var out bytes.Buffer
	err := cli.Run(cli.Config{Args: []string{path}, Output: &out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "ok\n" {
		t.Fatalf("expected %q, got %q", "ok\n", out.String())
	}
	if code := cli.ExitCode(err); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRunWithoutAFileReturnsUsageError(t *testing.T) {
	var out bytes.Buffer
	err := cli.Run(cli.Config{Args: []string{}, Output: &out})
	if err == nil {
		t.Fatalf("expected a usage error")
	}
	if code := cli.ExitCode(err); code != 1 {
		t.Fatalf("expected the generic failure exit code 1 for a usage error, got %d", code)
	}
}

func TestExitCodeIsZeroForANilError(t *testing.T) {
	if code := cli.ExitCode(nil); code != 0 {
		t.Fatalf("expected exit code 0 for a nil error, got %d", code)
	}
}

func TestRunFormatsRuntimeErrorsAsDiagnostics(t *testing.T) {
	path := writeProgram(t, `missing_var`)
	var out bytes.Buffer
	err := cli.Run(cli.Config{Args: []string{path}, Output: &out})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "runtime error at") {
		t.Fatalf("expected a formatted runtime diagnostic, got %q", err.Error())
	}
	if code := cli.ExitCode(err); code != 2 {
		t.Fatalf("expected exit code 2 for a runtime error, got %d", code)
	}
}

func TestRunFormatsSyntaxErrorsAsDiagnosticsWithExitCodeOne(t *testing.T) {
	path := writeProgram(t, `}`)
	var out bytes.Buffer
	err := cli.Run(cli.Config{Args: []string{path}, Output: &out})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "syntax error at") {
		t.Fatalf("expected a formatted syntax diagnostic, got %q", err.Error())
	}
	if code := cli.ExitCode(err); code != 1 {
		t.Fatalf("expected exit code 1 for a syntax error, got %d", code)
	}
}

func TestRunWithMissingFileWrapsReadError(t *testing.T) {
	var out bytes.Buffer
	err := cli.Run(cli.Config{Args: []string{filepath.Join(t.TempDir(), "missing.stop")}, Output: &out})
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if code := cli.ExitCode(err); code != 1 {
		t.Fatalf("expected the generic failure exit code 1 for a read error, got %d", code)
	}
}
