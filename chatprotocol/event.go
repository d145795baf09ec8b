package chatprotocol

import (
	"strings"
)

// EventType represents the kind of event produced from server input.
type EventType int

const (
	// EventLoginResult is the server's answer to a login request.
	EventLoginResult EventType = iota
	// EventDisconnect indicates the connection was closed.
	EventDisconnect
	// EventUserList carries the current list of logged-in users.
	EventUserList
	// EventMessage is an incoming public or private message.
	EventMessage
	// EventMessageAccepted acknowledges the last sent message.
	EventMessageAccepted
	// EventMessageError reports that the last sent message was rejected.
	EventMessageError
	// EventCommandError reports that the last command was not understood.
	EventCommandError
	// EventSupportedCommands carries the server's command list.
	EventSupportedCommands
)

// String returns a short name for the event type.
func (t EventType) String() string {
	switch t {
	case EventLoginResult:
		return "login-result"
	case EventDisconnect:
		return "disconnect"
	case EventUserList:
		return "user-list"
	case EventMessage:
		return "message"
	case EventMessageAccepted:
		return "message-accepted"
	case EventMessageError:
		return "message-error"
	case EventCommandError:
		return "command-error"
	case EventSupportedCommands:
		return "supported-commands"
	default:
		return "unknown"
	}
}

// TextMessage is a chat message received from another user.
type TextMessage struct {
	Sender  string
	Private bool
	Text    string
}

// Event is a single notification derived from the server's input.
// Only the fields relevant to Type are populated.
type Event struct {
	Type EventType

	// For EventLoginResult
	Success bool

	// For EventLoginResult (on failure), EventMessageError, EventCommandError
	Message string

	// For EventUserList
	Users []string

	// For EventSupportedCommands
	Commands []string

	// For EventMessage
	Text TextMessage
}

// NewLoginResultEvent creates a login result event.
func NewLoginResultEvent(success bool, message string) Event {
	return Event{Type: EventLoginResult, Success: success, Message: message}
}

// NewDisconnectEvent creates a disconnect event.
func NewDisconnectEvent() Event {
	return Event{Type: EventDisconnect}
}

// NewUserListEvent creates a user list event.
func NewUserListEvent(users []string) Event {
	return Event{Type: EventUserList, Users: users}
}

// NewMessageEvent creates an incoming message event.
func NewMessageEvent(sender string, private bool, text string) Event {
	return Event{
		Type: EventMessage,
		Text: TextMessage{Sender: sender, Private: private, Text: text},
	}
}

// NewMessageAcceptedEvent creates a message acknowledgement event.
func NewMessageAcceptedEvent() Event {
	return Event{Type: EventMessageAccepted}
}

// NewMessageErrorEvent creates a message error event.
func NewMessageErrorEvent(description string) Event {
	return Event{Type: EventMessageError, Message: description}
}

// NewCommandErrorEvent creates a command error event.
func NewCommandErrorEvent(description string) Event {
	return Event{Type: EventCommandError, Message: description}
}

// NewSupportedCommandsEvent creates a supported commands event.
func NewSupportedCommandsEvent(commands []string) Event {
	return Event{Type: EventSupportedCommands, Commands: commands}
}

// Format returns the line a server sends to produce this event, without
// the terminator. EventDisconnect has no wire form and formats as "".
func (e Event) Format() string {
	switch e.Type {
	case EventLoginResult:
		if e.Success {
			return KeywordLoginOK
		}
		if e.Message == "" || e.Message == DefaultLoginError {
			return KeywordLoginError
		}
		return KeywordLoginError + " " + e.Message
	case EventUserList:
		return KeywordUsers + " " + strings.Join(e.Users, " ")
	case EventMessage:
		keyword := KeywordPublicMessage
		if e.Text.Private {
			keyword = KeywordPrivateMessage
		}
		return keyword + " " + e.Text.Sender + " " + e.Text.Text
	case EventMessageAccepted:
		return KeywordMessageOK
	case EventMessageError:
		return KeywordMessageError + " " + e.Message
	case EventCommandError:
		return KeywordCommandError + " " + e.Message
	case EventSupportedCommands:
		return KeywordSupported + " " + strings.Join(e.Commands, " ")
	default:
		return ""
	}
}
