package locator_test

import (
	"testing"

	"github.com/oeed/stop/internal/locator"
)

func TestDescribeFirstByte(t *testing.T) {
	got := locator.Describe("abc", locator.AtByte(0))
	if got != "line 1, col 1" {
		t.Fatalf("got %q", got)
	}
}

func TestDescribeAfterNewline(t *testing.T) {
	source := "ab\ncd"
	got := locator.Describe(source, locator.AtByte(3))
	if got != "line 2, col 1" {
		t.Fatalf("got %q", got)
	}
}

func TestDescribeEOF(t *testing.T) {
	if got := locator.Describe("abc", locator.EOF()); got != "end of file" {
		t.Fatalf("got %q", got)
	}
}

func TestDescribeAtSourceLength(t *testing.T) {
	source := "ab"
	got := locator.Describe(source, locator.AtByte(len(source)))
	if got != "line 1, col 3" {
		t.Fatalf("got %q", got)
	}
}
