package chatprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the chat protocol.
var (
	// ErrLineTooLong indicates an inbound line exceeded MaxLineLength.
	ErrLineTooLong = errors.New("line too long")

	// ErrNotConnected indicates an operation was attempted without a connection.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates connect was called while already connected.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrInvalidLine indicates an outbound line contained a line break.
	ErrInvalidLine = errors.New("invalid line")

	// ErrEmptyMessage indicates a message with no text.
	ErrEmptyMessage = errors.New("empty message")

	// ErrInvalidUsername indicates a username or recipient that is empty or
	// contains whitespace.
	ErrInvalidUsername = errors.New("invalid username")
)

// ParseError describes an inbound line that could not be turned into an event.
// Parse errors never end the reader loop.
type ParseError struct {
	Kind    ParseErrorKind
	Value   string // The command word that caused the error
	Message string // Additional context
}

// ParseErrorKind categorizes parsing errors.
type ParseErrorKind int

const (
	// ErrKindUnknownCommand indicates a command word outside the protocol vocabulary.
	ErrKindUnknownCommand ParseErrorKind = iota
	// ErrKindMissingPayload indicates a known command without its required arguments.
	ErrKindMissingPayload
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindUnknownCommand:
		return fmt.Sprintf("unknown command '%s'", e.Value)
	case ErrKindMissingPayload:
		return fmt.Sprintf("malformed '%s': %s", e.Value, e.Message)
	default:
		return fmt.Sprintf("parse error: %s", e.Value)
	}
}

func newUnknownCommandError(cmd string) error {
	return &ParseError{Kind: ErrKindUnknownCommand, Value: cmd}
}

func newMissingPayloadError(cmd, msg string) error {
	return &ParseError{Kind: ErrKindMissingPayload, Value: cmd, Message: msg}
}

// IsUnknownCommand reports whether err is a ParseError for an unknown command word.
func IsUnknownCommand(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == ErrKindUnknownCommand
}

// ConnectionError represents a transport failure.
type ConnectionError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) error {
	return &ConnectionError{Message: message, Cause: cause}
}
