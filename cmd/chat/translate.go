// =============================================================================
// translate.go - REPL Input to Protocol Command Translation
// =============================================================================
//
// This file converts what the user types at the prompt into either a
// protocol command for the server or a local action for the REPL:
//
//   hello everyone          → msg hello everyone
//   //etc is fine           → msg /etc is fine
//   @bob see you later      → privmsg bob see you later
//   /msg bob see you later  → privmsg bob see you later
//   /users                  → users
//   /help                   → help (asks the server what it supports)
//   /login alice            → login alice
//   /connect [host [port]]  → local: open a connection
//   /disconnect             → local: close the connection
//   /quit, .quit            → local: leave the REPL
//   .help [topic]           → local: print built-in help
//
// The translation itself is pure (no I/O) so it can be table-tested.
//
// =============================================================================

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/datakomm/chatclient/chatprotocol"
)

// actionKind says what the REPL should do with a line of input.
type actionKind int

const (
	// actionNone means the line was blank.
	actionNone actionKind = iota
	// actionSend sends action.cmd to the server.
	actionSend
	// actionLocalHelp prints built-in help for action.topic.
	actionLocalHelp
	// actionConnect opens a connection to action.host and action.port.
	// Empty host or zero port mean "use the configured value".
	actionConnect
	// actionDisconnect closes the connection.
	actionDisconnect
	// actionQuit leaves the REPL.
	actionQuit
)

// action is the result of translating one input line.
type action struct {
	kind actionKind
	cmd  chatprotocol.Command

	topic string
	host  string
	port  int
}

// GO CONCEPT: Multiple Return Values for Errors
// ---------------------------------------------
// translateInput returns the action and an error instead of storing the
// error inside action. The caller checks err first and only looks at the
// action when err is nil; this keeps the "what went wrong" path explicit.

// translateInput converts one line of user input into an action.
func translateInput(line string) (action, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return action{kind: actionNone}, nil
	}

	// "//text" escapes a message that starts with a slash.
	if strings.HasPrefix(line, "//") {
		return action{kind: actionSend, cmd: chatprotocol.NewPublicMessageCommand(line[1:])}, nil
	}

	switch line[0] {
	case '.':
		return translateDotCommand(line)
	case '/':
		return translateSlashCommand(line)
	case '@':
		recipient, text := splitWord(line[1:])
		return privateMessage(recipient, text, "@<user> <text>")
	}

	return action{kind: actionSend, cmd: chatprotocol.NewPublicMessageCommand(line)}, nil
}

// translateDotCommand handles the REPL's local dot-commands.
func translateDotCommand(line string) (action, error) {
	word, rest := splitWord(line)
	switch strings.ToLower(word) {
	case ".help":
		return action{kind: actionLocalHelp, topic: rest}, nil
	case ".quit", ".exit":
		return action{kind: actionQuit}, nil
	}
	return action{}, fmt.Errorf("unknown command '%s'. Type .help for available commands", word)
}

// translateSlashCommand handles commands that map onto the chat protocol
// or onto connection management.
func translateSlashCommand(line string) (action, error) {
	word, rest := splitWord(line)

	switch strings.ToLower(word) {
	case "/msg", "/privmsg":
		recipient, text := splitWord(rest)
		return privateMessage(recipient, text, "/msg <user> <text>")

	case "/users", "/who":
		if rest != "" {
			return action{}, fmt.Errorf("usage: /users")
		}
		return action{kind: actionSend, cmd: chatprotocol.NewUsersCommand()}, nil

	case "/help":
		if rest != "" {
			return action{}, fmt.Errorf("usage: /help (use .help <topic> for local help)")
		}
		return action{kind: actionSend, cmd: chatprotocol.NewHelpCommand()}, nil

	case "/login":
		name, extra := splitWord(rest)
		if name == "" || extra != "" {
			return action{}, fmt.Errorf("usage: /login <username>")
		}
		return action{kind: actionSend, cmd: chatprotocol.NewLoginCommand(name)}, nil

	case "/connect":
		return translateConnect(rest)

	case "/disconnect":
		return action{kind: actionDisconnect}, nil

	case "/quit", "/exit":
		return action{kind: actionQuit}, nil
	}

	return action{}, fmt.Errorf("unknown command '%s'. Type .help for available commands", word)
}

// translateConnect parses "/connect [host [port]]".
func translateConnect(args string) (action, error) {
	fields := strings.Fields(args)
	a := action{kind: actionConnect}

	switch len(fields) {
	case 0:
	case 2:
		port, err := strconv.Atoi(fields[1])
		if err != nil || port <= 0 || port > 65535 {
			return action{}, fmt.Errorf("invalid port '%s'", fields[1])
		}
		a.port = port
		fallthrough
	case 1:
		a.host = fields[0]
	default:
		return action{}, fmt.Errorf("usage: /connect [host [port]]")
	}
	return a, nil
}

func privateMessage(recipient, text, usage string) (action, error) {
	if recipient == "" || text == "" {
		return action{}, fmt.Errorf("usage: %s", usage)
	}
	return action{kind: actionSend, cmd: chatprotocol.NewPrivateMessageCommand(recipient, text)}, nil
}

// splitWord splits s at its first whitespace run. The remainder keeps its
// inner spacing but loses leading and trailing blanks.
func splitWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i:])
	}
	return s, ""
}
