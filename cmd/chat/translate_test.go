// =============================================================================
// translate_test.go - Tests for Input Translation (translate.go)
// =============================================================================
//
// translateInput is pure, so these are plain table-driven tests: one row per
// input line with the expected action or error.
//
// =============================================================================

package main

import (
	"strings"
	"testing"

	"github.com/datakomm/chatclient/chatprotocol"
)

func TestTranslateSendCommands(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello everyone", "msg hello everyone"},
		{"  padded  ", "msg padded"},
		{"//etc is fine", "msg /etc is fine"},
		{"@bob see you later", "privmsg bob see you later"},
		{"@bob   spaced  out", "privmsg bob spaced  out"},
		{"/msg bob see you later", "privmsg bob see you later"},
		{"/privmsg bob hi", "privmsg bob hi"},
		{"/MSG bob hi", "privmsg bob hi"},
		{"/users", "users"},
		{"/who", "users"},
		{"/help", "help"},
		{"/login alice", "login alice"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			a, err := translateInput(tt.input)
			if err != nil {
				t.Fatalf("translateInput(%q) error: %v", tt.input, err)
			}
			if a.kind != actionSend {
				t.Fatalf("translateInput(%q) kind = %v, want actionSend", tt.input, a.kind)
			}
			if got := a.cmd.Format(); got != tt.expected {
				t.Errorf("translateInput(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTranslateLocalActions(t *testing.T) {
	tests := []struct {
		input string
		want  action
	}{
		{"", action{kind: actionNone}},
		{"   ", action{kind: actionNone}},
		{".help", action{kind: actionLocalHelp}},
		{".help msg", action{kind: actionLocalHelp, topic: "msg"}},
		{".HELP users", action{kind: actionLocalHelp, topic: "users"}},
		{".quit", action{kind: actionQuit}},
		{".exit", action{kind: actionQuit}},
		{"/quit", action{kind: actionQuit}},
		{"/exit", action{kind: actionQuit}},
		{"/disconnect", action{kind: actionDisconnect}},
		{"/connect", action{kind: actionConnect}},
		{"/connect chat.example", action{kind: actionConnect, host: "chat.example"}},
		{"/connect chat.example 4000", action{kind: actionConnect, host: "chat.example", port: 4000}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := translateInput(tt.input)
			if err != nil {
				t.Fatalf("translateInput(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("translateInput(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"/bogus", "unknown command '/bogus'"},
		{".bogus", "unknown command '.bogus'"},
		{"@bob", "usage: @<user> <text>"},
		{"@", "usage: @<user> <text>"},
		{"/msg", "usage: /msg <user> <text>"},
		{"/msg bob", "usage: /msg <user> <text>"},
		{"/login", "usage: /login <username>"},
		{"/login al ice", "usage: /login <username>"},
		{"/users now", "usage: /users"},
		{"/help me", "usage: /help"},
		{"/connect host notaport", "invalid port 'notaport'"},
		{"/connect host 70000", "invalid port '70000'"},
		{"/connect a b c", "usage: /connect"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := translateInput(tt.input)
			if err == nil {
				t.Fatalf("translateInput(%q) should fail", tt.input)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("translateInput(%q) error = %q, want it to contain %q", tt.input, err, tt.message)
			}
		})
	}
}

// Translated commands must pass the client's own validation, except where
// the user typed something the protocol cannot carry.
func TestTranslatedCommandsValidate(t *testing.T) {
	for _, input := range []string{"hi", "@bob hi", "/users", "/help", "/login alice"} {
		a, err := translateInput(input)
		if err != nil {
			t.Fatalf("translateInput(%q) error: %v", input, err)
		}
		if err := a.cmd.Validate(); err != nil {
			t.Errorf("%q: Validate() = %v", input, err)
		}
	}

	a, _ := translateInput("/login Alice")
	if a.cmd.Type != chatprotocol.CmdLogin || a.cmd.Username != "Alice" {
		t.Errorf("login keeps the name's case, got %+v", a.cmd)
	}
}

func TestSplitWord(t *testing.T) {
	tests := []struct {
		input, word, rest string
	}{
		{"", "", ""},
		{"one", "one", ""},
		{"one two", "one", "two"},
		{"  one   two  three  ", "one", "two  three"},
		{"one\ttwo", "one", "two"},
	}

	for _, tt := range tests {
		word, rest := splitWord(tt.input)
		if word != tt.word || rest != tt.rest {
			t.Errorf("splitWord(%q) = (%q, %q), want (%q, %q)", tt.input, word, rest, tt.word, tt.rest)
		}
	}
}
