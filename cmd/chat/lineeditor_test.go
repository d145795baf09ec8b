// =============================================================================
// lineeditor_test.go - Tests for Line Editing (lineeditor.go)
// =============================================================================
//
// Under "go test" stdin is never a terminal, so NewLineEditor always takes
// the scanner path. The tests swap os.Stdin for a pipe to feed it input.
// The readline path needs a real TTY and is exercised by hand.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pipeStdin replaces os.Stdin with a pipe holding input and restores it
// when the test ends.
func pipeStdin(t *testing.T, input string) {
	t.Helper()

	oldStdin := os.Stdin
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdin = reader
	t.Cleanup(func() {
		os.Stdin = oldStdin
		reader.Close()
	})

	fmt.Fprint(writer, input)
	writer.Close()
}

func newTestEditor(t *testing.T, input string) *LineEditor {
	t.Helper()
	pipeStdin(t, input)
	editor := NewLineEditor(filepath.Join(t.TempDir(), "history"), 10)
	t.Cleanup(editor.Close)
	return editor
}

func TestNewLineEditorNonInteractive(t *testing.T) {
	editor := newTestEditor(t, "")

	if editor.IsInteractive() {
		t.Error("editor should be non-interactive when stdin is a pipe")
	}
	if editor.scanner == nil {
		t.Error("non-interactive editor needs a scanner")
	}
	if editor.Writer() != io.Writer(os.Stdout) {
		t.Error("non-interactive editor should write to stdout")
	}
}

func TestNewLineEditorWithEmacsEnv(t *testing.T) {
	t.Setenv("INSIDE_EMACS", "29.1,comint")
	editor := newTestEditor(t, "")

	if editor.IsInteractive() {
		t.Error("editor should be non-interactive when INSIDE_EMACS is set")
	}
}

func TestGetLineReadsLines(t *testing.T) {
	editor := newTestEditor(t, "hello world\n\n   \n@bob psst\nlast without newline")

	for _, want := range []string{"hello world", "", "   ", "@bob psst", "last without newline"} {
		got, err := editor.GetLine("> ")
		if err != nil {
			t.Fatalf("GetLine() error before %q: %v", want, err)
		}
		if got != want {
			t.Errorf("GetLine() = %q, want %q", got, want)
		}
	}

	if _, err := editor.GetLine("> "); err != io.EOF {
		t.Errorf("GetLine() after exhaustion: error = %v, want io.EOF", err)
	}
}

func TestGetLineLongInput(t *testing.T) {
	long := strings.Repeat("x", 4000)
	editor := newTestEditor(t, long+"\n")

	got, err := editor.GetLine("> ")
	if err != nil {
		t.Fatalf("GetLine() error: %v", err)
	}
	if got != long {
		t.Errorf("GetLine() returned %d bytes, want %d", len(got), len(long))
	}
}

func TestGetLinePromptsToStdout(t *testing.T) {
	editor := newTestEditor(t, "test\n")

	oldStdout := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create stdout pipe: %v", err)
	}
	os.Stdout = writer
	defer func() { os.Stdout = oldStdout }()

	_, _ = editor.GetLine("[offline] > ")

	writer.Close()
	data, _ := io.ReadAll(reader)
	reader.Close()

	if !strings.Contains(string(data), "[offline] > ") {
		t.Errorf("expected prompt on stdout, got %q", data)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	editor := newTestEditor(t, "")
	editor.Close()
	editor.Close()
}

// newScannerEditor is what NewLineEditor falls back to; it must behave the
// same with any reader.
func TestScannerEditorFromReader(t *testing.T) {
	editor := newScannerEditor(strings.NewReader("one\ntwo\n"))

	for _, want := range []string{"one", "two"} {
		if got, err := editor.getNonInteractiveLine(""); err != nil || got != want {
			t.Errorf("getNonInteractiveLine() = %q, %v; want %q", got, err, want)
		}
	}
	if _, err := editor.getNonInteractiveLine(""); err != io.EOF {
		t.Errorf("error = %v, want io.EOF", err)
	}
}

func TestDefaultHistorySizeIsPositive(t *testing.T) {
	if defaultHistorySize <= 0 {
		t.Errorf("defaultHistorySize = %d, want > 0", defaultHistorySize)
	}
}
