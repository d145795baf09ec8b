// =============================================================================
// lineeditor.go - Line Editing with History
// =============================================================================
//
// LineEditor reads one line of user input per call. On a terminal it uses
// github.com/ergochat/readline for cursor movement, history navigation and
// incremental search. When stdin is a pipe or the client runs inside an
// Emacs comint buffer it falls back to a plain bufio.Scanner.
//
// Incoming chat messages arrive while the user is typing. Output goes
// through Writer so readline can redraw the prompt underneath them.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

// defaultHistorySize is used when the configured history size is not
// positive.
const defaultHistorySize = 500

// LineEditor provides line input with optional editing and history.
type LineEditor struct {
	// interactive is true when readline drives the terminal.
	interactive bool

	rl *readline.Instance

	scanner *bufio.Scanner
}

// NewLineEditor creates a line editor. historyPath may be empty to keep
// history in memory only.
//
// GO CONCEPT: Graceful Fallback
// -----------------------------
// If readline cannot take over the terminal we still return a usable
// editor. A warning goes to stderr and the scanner path is used instead;
// the caller never has to handle a nil editor.
func NewLineEditor(historyPath string, historySize int) *LineEditor {
	isInteractive := term.IsTerminal(int(os.Stdin.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !isInteractive {
		return newScannerEditor(os.Stdin)
	}

	if historySize <= 0 {
		historySize = defaultHistorySize
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:  historyPath,
		HistoryLimit: historySize,

		// Only non-blank lines are saved, see getInteractiveLine.
		DisableAutoSaveHistory: true,

		Prompt: "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newScannerEditor(os.Stdin)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
	}
}

func newScannerEditor(r io.Reader) *LineEditor {
	return &LineEditor{
		interactive: false,
		scanner:     bufio.NewScanner(r),
	}
}

// GetLine displays the prompt and reads one line without its terminator.
// It returns io.EOF on end of input or Ctrl-C.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}

	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	fmt.Print(prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return le.scanner.Text(), nil
}

// Writer returns where REPL output should go. On a terminal readline
// redraws the prompt and the partial input after each write.
func (le *LineEditor) Writer() io.Writer {
	if le.rl != nil {
		return le.rl
	}
	return os.Stdout
}

// Close restores the terminal. It is safe to call more than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
		le.interactive = false
		le.scanner = bufio.NewScanner(strings.NewReader(""))
	}
}

// IsInteractive reports whether readline is in use.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}
