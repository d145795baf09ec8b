// =============================================================================
// help.go - Local Help System
// =============================================================================
//
// This file implements the REPL's built-in help:
//   - ".help"         Overview of everything the REPL understands
//   - ".help <topic>" Detailed help for one command
//
// Local help never touches the network. "/help" is different: it asks the
// server for the commands it supports and the answer arrives as an event.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"
)

// GO CONCEPT: Map Literals for Lookup Tables
// -------------------------------------------
// Go uses map[string]string for string-to-string dictionaries. Lookups use
// the comma-ok form so a missing key can be told apart from an empty value:
//
//   text, ok := helpTopics[key]

// helpTopics holds the detailed help text, keyed by command name without
// its leading "/" or ".".
var helpTopics = map[string]string{
	"msg": `/msg <user> <text>
    Send a private message to one user. "@<user> <text>" is a shortcut.
    Example: /msg bob are you there?`,

	"users": `/users
    Ask the server for the list of logged-in users. The list replaces
    the one shown before.`,

	"help": `/help
    Ask the server which commands it supports. For this built-in help,
    use .help instead.`,

	"login": `/login <username>
    Log in with a single-word name. The server answers with a login
    result; messages can be sent once the login succeeded.`,

	"connect": `/connect [host [port]]
    Open a connection. Without arguments the configured server is used.
    If a username is configured, the client logs in right away.`,

	"disconnect": `/disconnect
    Close the connection to the server. /connect opens a new one.`,

	"quit": `/quit, .quit
    Close the connection and leave the client.`,

	"message": `<text>
    Any line that does not start with "/", "." or "@" is sent to every
    user as a public message. Start a line with "//" to send a message
    that begins with a slash.`,
}

// helpAliases maps alternate topic names onto helpTopics keys.
var helpAliases = map[string]string{
	"privmsg": "msg",
	"@":       "msg",
	"who":     "users",
	"exit":    "quit",
	"public":  "message",
}

// printHelp writes the overview to out when topic is empty, otherwise the
// detailed help for topic. Unknown topics are reported on errOut.
func printHelp(out, errOut io.Writer, topic string) {
	if topic == "" {
		printHelpOverview(out)
		return
	}

	// ".help /msg", ".help .quit" and ".help MSG" all find the same entry.
	key := strings.ToLower(strings.TrimLeft(topic, "/."))
	if alias, ok := helpAliases[key]; ok {
		key = alias
	}

	if text, ok := helpTopics[key]; ok {
		fmt.Fprintln(out, text)
		return
	}

	fmt.Fprintf(errOut, "Error: No help for '%s'. Type .help to see available commands.\n", topic)
}

// printHelpOverview prints the full command listing.
func printHelpOverview(out io.Writer) {
	fmt.Fprint(out, `Chat Commands:
  <text>                  Send a public message
  @<user> <text>          Send a private message
  /msg <user> <text>      Send a private message
  /users                  List logged-in users
  /help                   Ask the server for its supported commands
  /login <username>       Log in
  /connect [host [port]]  Connect to a server
  /disconnect             Close the connection
  /quit                   Exit

Local Commands:
  .help [topic]           Show help (or help for a specific command)
  .quit                   Exit
`)
}
