package chatprotocol

import (
	"sync"
)

// Listener receives events from a Client.
//
// All methods are called on the client's reader goroutine. A method that
// blocks stalls the reading of further lines.
type Listener interface {
	// OnLoginResult reports the server's answer to a login request.
	// message is empty on success.
	OnLoginResult(success bool, message string)

	// OnDisconnect reports that the connection was closed, either by
	// Disconnect or by a transport failure. Called once per connection.
	OnDisconnect()

	// OnUserList delivers the complete current user list. It replaces any
	// list received before.
	OnUserList(users []string)

	// OnMessageReceived delivers a public or private message.
	OnMessageReceived(msg TextMessage)

	// OnMessageError reports that the last sent message was rejected.
	OnMessageError(description string)

	// OnCommandError reports that the last command was not understood.
	OnCommandError(description string)

	// OnSupportedCommands delivers the commands the server supports.
	OnSupportedCommands(commands []string)
}

// BaseListener implements Listener with no-op methods. Embed it to handle
// only some events.
type BaseListener struct{}

func (BaseListener) OnLoginResult(bool, string) {}
func (BaseListener) OnDisconnect() {}
func (BaseListener) OnUserList([]string) {}
func (BaseListener) OnMessageReceived(TextMessage) {}
func (BaseListener) OnMessageError(string) {}
func (BaseListener) OnCommandError(string) {}
func (BaseListener) OnSupportedCommands([]string) {}

// Dispatch calls the Listener method matching e. Events without a
// callback, such as EventMessageAccepted, are ignored.
func Dispatch(l Listener, e Event) {
	switch e.Type {
	case EventLoginResult:
		l.OnLoginResult(e.Success, e.Message)
	case EventDisconnect:
		l.OnDisconnect()
	case EventUserList:
		l.OnUserList(e.Users)
	case EventMessage:
		l.OnMessageReceived(e.Text)
	case EventMessageError:
		l.OnMessageError(e.Message)
	case EventCommandError:
		l.OnCommandError(e.Message)
	case EventSupportedCommands:
		l.OnSupportedCommands(e.Commands)
	}
}

// ChannelListener is a Listener that forwards every callback as an Event
// on a buffered channel, so events can be handled on the consumer's own
// goroutine. When the buffer is full the reader goroutine waits.
type ChannelListener struct {
	events chan Event

	mu     sync.RWMutex
	closed bool
}

// NewChannelListener creates a ChannelListener with the given buffer size.
func NewChannelListener(buffer int) *ChannelListener {
	return &ChannelListener{events: make(chan Event, buffer)}
}

// Events returns the channel events are delivered on. It is closed by Close.
func (l *ChannelListener) Events() <-chan Event {
	return l.events
}

// Close closes the events channel. Callbacks after Close are dropped.
func (l *ChannelListener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		close(l.events)
	}
}

func (l *ChannelListener) send(e Event) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.closed {
		l.events <- e
	}
}

func (l *ChannelListener) OnLoginResult(success bool, message string) {
	l.send(NewLoginResultEvent(success, message))
}

func (l *ChannelListener) OnDisconnect() {
	l.send(NewDisconnectEvent())
}

func (l *ChannelListener) OnUserList(users []string) {
	l.send(NewUserListEvent(users))
}

func (l *ChannelListener) OnMessageReceived(msg TextMessage) {
	l.send(Event{Type: EventMessage, Text: msg})
}

func (l *ChannelListener) OnMessageError(description string) {
	l.send(NewMessageErrorEvent(description))
}

func (l *ChannelListener) OnCommandError(description string) {
	l.send(NewCommandErrorEvent(description))
}

func (l *ChannelListener) OnSupportedCommands(commands []string) {
	l.send(NewSupportedCommandsEvent(commands))
}

// listenerSet is an ordered set of listeners compared by identity.
// Listeners must be comparable; pointers are the usual choice.
type listenerSet struct {
	mu        sync.Mutex
	listeners []Listener
}

// add appends l unless it is already registered. Reports whether it was added.
func (s *listenerSet) add(l Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.listeners {
		if existing == l {
			return false
		}
	}
	s.listeners = append(s.listeners, l)
	return true
}

// remove deletes l. Reports whether it was registered.
func (s *listenerSet) remove(l Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.listeners {
		if existing == l {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// snapshot returns the listeners in registration order. Notification runs
// on the snapshot so listeners may add or remove listeners from a callback.
func (s *listenerSet) snapshot() []Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}
