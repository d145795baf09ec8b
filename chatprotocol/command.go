package chatprotocol

import (
	"fmt"
	"strings"
)

// CommandType represents the type of an outbound command.
type CommandType int

const (
	CmdLogin CommandType = iota
	CmdPublicMessage
	CmdPrivateMessage
	CmdUsers
	CmdHelp
)

// Command is an outbound protocol command. Use the constructor functions
// to create Command values.
type Command struct {
	Type CommandType

	Username  string // For login
	Recipient string // For privmsg
	Text      string // For msg, privmsg
}

// NewLoginCommand creates a login request for username.
func NewLoginCommand(username string) Command {
	return Command{Type: CmdLogin, Username: username}
}

// NewPublicMessageCommand creates a message broadcast to every user.
func NewPublicMessageCommand(text string) Command {
	return Command{Type: CmdPublicMessage, Text: text}
}

// NewPrivateMessageCommand creates a message addressed to one recipient.
func NewPrivateMessageCommand(recipient, text string) Command {
	return Command{Type: CmdPrivateMessage, Recipient: recipient, Text: text}
}

// NewUsersCommand requests the list of logged-in users.
func NewUsersCommand() Command {
	return Command{Type: CmdUsers}
}

// NewHelpCommand requests the list of commands the server supports.
func NewHelpCommand() Command {
	return Command{Type: CmdHelp}
}

// Validate checks that the command can be sent as a single protocol line.
func (c Command) Validate() error {
	switch c.Type {
	case CmdLogin:
		return validateName(c.Username)
	case CmdPublicMessage:
		return validateText(c.Text)
	case CmdPrivateMessage:
		if err := validateName(c.Recipient); err != nil {
			return err
		}
		return validateText(c.Text)
	case CmdUsers, CmdHelp:
		return nil
	default:
		return fmt.Errorf("unknown command type %d", c.Type)
	}
}

func validateName(name string) error {
	if name == "" || strings.ContainsFunc(name, isSpace) {
		return fmt.Errorf("%w '%s'", ErrInvalidUsername, name)
	}
	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if strings.ContainsAny(text, "\r\n") {
		return fmt.Errorf("%w: message contains a line break", ErrInvalidLine)
	}
	return nil
}

// Format returns the command as a protocol line without the terminator.
func (c Command) Format() string {
	switch c.Type {
	case CmdLogin:
		return KeywordLogin + " " + c.Username
	case CmdPublicMessage:
		return KeywordPublicMessage + " " + c.Text
	case CmdPrivateMessage:
		return KeywordPrivateMessage + " " + c.Recipient + " " + c.Text
	case CmdUsers:
		return KeywordUsers
	case CmdHelp:
		return KeywordHelp
	default:
		return ""
	}
}
