package chatprotocol

import (
	"strings"
	"unicode"
)

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// SplitCommand splits a line into its command word and the remainder.
//
// A trailing line terminator and any leading whitespace are removed first.
// The remainder is everything after the first run of whitespace following
// the command word, kept verbatim. An empty or blank line yields "", "".
func SplitCommand(line string) (command, rest string) {
	line = strings.TrimRight(line, "\r\n")
	line = strings.TrimLeftFunc(line, isSpace)

	idx := strings.IndexFunc(line, isSpace)
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimLeftFunc(line[idx:], isSpace)
}

// splitSenderBody splits a "sender text..." payload. The body keeps its
// internal whitespace.
func splitSenderBody(rest string) (sender, body string, ok bool) {
	idx := strings.IndexFunc(rest, isSpace)
	if idx < 0 {
		return rest, "", false
	}
	body = strings.TrimLeftFunc(rest[idx:], isSpace)
	return rest[:idx], body, body != ""
}

// ParseLine parses one inbound line into an Event.
//
// Unknown command words and known commands with a missing payload return a
// *ParseError; lines longer than MaxLineLength return ErrLineTooLong. In
// every error case the caller should drop the line and continue.
func ParseLine(line string) (Event, error) {
	if len(strings.TrimRight(line, "\r\n")) > MaxLineLength {
		return Event{}, ErrLineTooLong
	}

	word, rest := SplitCommand(line)
	command := strings.ToLower(word)

	switch command {
	case KeywordLoginOK:
		return NewLoginResultEvent(true, ""), nil

	case KeywordLoginError:
		if rest == "" {
			return NewLoginResultEvent(false, DefaultLoginError), nil
		}
		return NewLoginResultEvent(false, rest), nil

	case KeywordPublicMessage, KeywordPrivateMessage:
		return parseMessage(command, rest)

	case KeywordMessageOK:
		return NewMessageAcceptedEvent(), nil

	case KeywordMessageError:
		if rest == "" {
			return Event{}, newMissingPayloadError(command, "missing description")
		}
		return NewMessageErrorEvent(rest), nil

	case KeywordCommandError:
		if rest == "" {
			return Event{}, newMissingPayloadError(command, "missing description")
		}
		return NewCommandErrorEvent(rest), nil

	case KeywordUsers:
		users := strings.Fields(rest)
		if len(users) == 0 {
			return Event{}, newMissingPayloadError(command, "missing user list")
		}
		return NewUserListEvent(users), nil

	case KeywordSupported:
		commands := strings.Fields(rest)
		if len(commands) == 0 {
			return Event{}, newMissingPayloadError(command, "missing command list")
		}
		return NewSupportedCommandsEvent(commands), nil

	default:
		return Event{}, newUnknownCommandError(word)
	}
}

func parseMessage(command, rest string) (Event, error) {
	if rest == "" {
		return Event{}, newMissingPayloadError(command, "missing sender and text")
	}
	sender, body, ok := splitSenderBody(rest)
	if !ok {
		return Event{}, newMissingPayloadError(command, "missing text")
	}
	return NewMessageEvent(sender, command == KeywordPrivateMessage, body), nil
}
