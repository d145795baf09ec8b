package chatprotocol

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/datakomm/chatclient/internal/logger"
)

// Client is a chat protocol client.
//
// It owns a Conn, runs one reader goroutine per connection that turns
// inbound lines into events, and notifies registered listeners.
//
// Thread Safety:
// All methods are safe for concurrent use. Listener callbacks run on the
// reader goroutine; calling Wait from a callback deadlocks.
type Client struct {
	conn      *Conn
	listeners listenerSet

	// loggedIn is the session the server confirmed a login on. A login
	// belongs to one connection and never carries over to the next.
	loggedIn atomic.Pointer[session]

	// mu guards readerDone.
	mu         sync.Mutex
	readerDone chan struct{}
}

// NewClient creates a client that connects over TCP.
func NewClient() *Client {
	return NewClientWithDialer(nil)
}

// NewClientWithDialer creates a client that opens connections with dialer.
func NewClientWithDialer(dialer Dialer) *Client {
	c := &Client{conn: NewConn(dialer)}
	c.conn.setSessionCloseHandler(c.handleDisconnect)
	return c
}

// AddListener registers l. Adding a listener twice has no effect.
func (c *Client) AddListener(l Listener) {
	c.listeners.add(l)
}

// RemoveListener unregisters l.
func (c *Client) RemoveListener(l Listener) {
	c.listeners.remove(l)
}

// IsConnected returns true if the client is currently connected.
func (c *Client) IsConnected() bool {
	return c.conn.IsConnected()
}

// IsLoggedIn returns true once the server has confirmed a login on the
// current connection.
func (c *Client) IsLoggedIn() bool {
	return c.conn.isCurrent(c.loggedIn.Load())
}

// RemoteAddr returns "host:port" of the current connection, or "".
func (c *Client) RemoteAddr() string {
	return c.conn.RemoteAddr()
}

// LastError returns the description of the most recent error, or "".
func (c *Client) LastError() string {
	return c.conn.LastError()
}

// Connect connects to a chat server and starts the reader goroutine.
func (c *Client) Connect(ctx context.Context, host string, port int) error {
	s, err := c.conn.open(ctx, host, port)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.readerDone = done
	c.mu.Unlock()

	go c.readerLoop(s, done)
	return nil
}

// Disconnect closes the connection. Listeners receive OnDisconnect once.
func (c *Client) Disconnect() {
	c.conn.Disconnect()
}

// Wait blocks until the reader goroutine of the latest connection exits.
func (c *Client) Wait() {
	c.mu.Lock()
	done := c.readerDone
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// SendCommand validates cmd and sends it as one line.
func (c *Client) SendCommand(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		c.conn.recordError(err)
		return err
	}
	return c.conn.SendLine(cmd.Format())
}

// TryLogin sends a login request. The answer arrives as OnLoginResult.
func (c *Client) TryLogin(username string) error {
	return c.SendCommand(NewLoginCommand(username))
}

// SendPublicMessage sends a message to all users.
func (c *Client) SendPublicMessage(text string) error {
	return c.SendCommand(NewPublicMessageCommand(text))
}

// SendPrivateMessage sends a message to a single recipient.
func (c *Client) SendPrivateMessage(recipient, text string) error {
	return c.SendCommand(NewPrivateMessageCommand(recipient, text))
}

// RefreshUserList asks the server for the current user list. The answer
// arrives as OnUserList.
func (c *Client) RefreshUserList() error {
	return c.SendCommand(NewUsersCommand())
}

// AskSupportedCommands asks the server which commands it supports. The
// answer arrives as OnSupportedCommands.
func (c *Client) AskSupportedCommands() error {
	return c.SendCommand(NewHelpCommand())
}

// readerLoop reads the lines of s until s closes. A failed read ends the
// loop (the Conn has already disconnected); a bad line is skipped. The loop
// never reads from a later connection, even when a listener callback kept
// it busy past a reconnect.
func (c *Client) readerLoop(s *session, done chan struct{}) {
	defer close(done)

	for c.conn.isCurrent(s) {
		line, err := c.conn.readFrom(s)
		if err != nil {
			if errors.Is(err, ErrLineTooLong) {
				logger.Warning("dropped inbound line", "error", err)
				continue
			}
			logger.Debug("reader stopped", "error", err)
			return
		}
		if !c.conn.isCurrent(s) {
			return
		}
		c.processLine(s, line)
	}
}

// processLine parses one line of s and notifies listeners.
func (c *Client) processLine(s *session, line string) {
	event, err := ParseLine(line)
	if err != nil {
		if IsUnknownCommand(err) {
			logger.Debug("ignored unknown command", "line", line)
		} else {
			logger.Warning("ignored malformed line", "line", line, "error", err)
		}
		return
	}

	switch event.Type {
	case EventLoginResult:
		// Must be set before listeners run so a callback can send right away.
		if event.Success {
			c.loggedIn.Store(s)
		}
	case EventMessage:
		logger.Always("message received",
			"from", event.Text.Sender,
			"private", event.Text.Private,
			"text", event.Text.Text)
	case EventMessageAccepted:
		logger.Debug("message accepted")
	}

	c.dispatch(event)
}

// handleDisconnect runs once per connection from Conn's close handler. It
// may run after a newer connection is already open; only the login of s
// is cleared.
func (c *Client) handleDisconnect(s *session) {
	c.loggedIn.CompareAndSwap(s, nil)
	c.dispatch(NewDisconnectEvent())
}

func (c *Client) dispatch(event Event) {
	for _, l := range c.listeners.snapshot() {
		Dispatch(l, event)
	}
}
