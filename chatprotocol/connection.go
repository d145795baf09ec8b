package chatprotocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/datakomm/chatclient/internal/logger"
)

// session is one open channel. Its fields never change after creation, so
// the reader and writer can use a session without holding a lock.
type session struct {
	stream io.ReadWriteCloser
	reader *bufio.Reader
	host   string
	port   int
}

// Conn manages the single connection to a chat server: connect, close,
// sending lines and reading lines.
//
// Thread Safety:
// SendLine and ReadLine may run concurrently, one goroutine per direction.
// Connect and Disconnect are serialised by a mutex, and the close handler
// runs exactly once per connection.
type Conn struct {
	dialer Dialer

	// mu guards the channel lifetime: connecting, closing, the close handler.
	mu         sync.Mutex
	connecting bool
	onClose    func(*session)

	current atomic.Pointer[session]

	// writeMu keeps lines from concurrent senders whole.
	writeMu sync.Mutex

	errMu     sync.Mutex
	lastError string
}

// NewConn creates a connection manager using dialer. A nil dialer dials TCP.
func NewConn(dialer Dialer) *Conn {
	if dialer == nil {
		dialer = TCPDialer{}
	}
	return &Conn{dialer: dialer}
}

// SetCloseHandler sets the function called after the connection is closed.
// It is called once per connection, on the goroutine that closed it.
func (c *Conn) SetCloseHandler(fn func()) {
	if fn == nil {
		c.setSessionCloseHandler(nil)
		return
	}
	c.setSessionCloseHandler(func(*session) { fn() })
}

// setSessionCloseHandler is SetCloseHandler with the closed session passed
// along, so the handler can tell which connection ended.
func (c *Conn) setSessionCloseHandler(fn func(*session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = fn
}

// IsConnected returns true if a channel is open.
func (c *Conn) IsConnected() bool {
	return c.current.Load() != nil
}

// isCurrent reports whether s is still the open session.
func (c *Conn) isCurrent(s *session) bool {
	return s != nil && c.current.Load() == s
}

// Host returns the host of the open connection, or "" when not connected.
func (c *Conn) Host() string {
	if s := c.current.Load(); s != nil {
		return s.host
	}
	return ""
}

// Port returns the port of the open connection, or 0 when not connected.
func (c *Conn) Port() int {
	if s := c.current.Load(); s != nil {
		return s.port
	}
	return 0
}

// RemoteAddr returns "host:port" of the open connection, or "".
func (c *Conn) RemoteAddr() string {
	if s := c.current.Load(); s != nil {
		return net.JoinHostPort(s.host, strconv.Itoa(s.port))
	}
	return ""
}

// LastError returns the description of the most recent error, or "".
func (c *Conn) LastError() string {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.lastError
}

func (c *Conn) recordError(err error) {
	c.errMu.Lock()
	c.lastError = err.Error()
	c.errMu.Unlock()
}

// Connect opens a channel to host:port. It fails with ErrAlreadyConnected
// if a channel is already open or being opened.
func (c *Conn) Connect(ctx context.Context, host string, port int) error {
	_, err := c.open(ctx, host, port)
	return err
}

// open is Connect returning the new session.
func (c *Conn) open(ctx context.Context, host string, port int) (*session, error) {
	c.mu.Lock()
	if c.current.Load() != nil || c.connecting {
		c.mu.Unlock()
		c.recordError(ErrAlreadyConnected)
		return nil, ErrAlreadyConnected
	}
	c.connecting = true
	c.mu.Unlock()

	stream, err := c.dialer.Dial(ctx, host, port)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.connecting = false

	if err != nil {
		connErr := NewConnectionError("could not connect to the server", err)
		c.recordError(connErr)
		logger.Warning("connect failed", "host", host, "port", port, "error", err)
		return nil, connErr
	}

	s := &session{
		stream: stream,
		reader: bufio.NewReader(stream),
		host:   host,
		port:   port,
	}
	c.current.Store(s)
	logger.Info("connected", "host", host, "port", port)
	return s, nil
}

// Disconnect closes the channel. It is idempotent and safe to call while
// another goroutine is blocked in ReadLine, which then returns an error.
func (c *Conn) Disconnect() {
	if s := c.current.Load(); s != nil {
		c.closeSession(s)
	}
}

// closeSession closes s if it is still the current session. Only the
// goroutine that swaps s out closes it and runs the close handler.
func (c *Conn) closeSession(s *session) {
	c.mu.Lock()
	if !c.current.CompareAndSwap(s, nil) {
		c.mu.Unlock()
		return
	}
	if err := s.stream.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.recordError(NewConnectionError("error closing connection", err))
		logger.Error("close failed", "host", s.host, "port", s.port, "error", err)
	}
	onClose := c.onClose
	c.mu.Unlock()

	logger.Info("disconnected", "host", s.host, "port", s.port)

	// The handler runs outside the lock so it may call Connect or Disconnect.
	if onClose != nil {
		onClose(s)
	}
}

// SendLine writes text followed by a line terminator. text must not
// contain line breaks. A write failure closes the connection.
func (c *Conn) SendLine(text string) error {
	if strings.ContainsAny(text, "\r\n") {
		err := fmt.Errorf("%w: line contains a line break", ErrInvalidLine)
		c.recordError(err)
		return err
	}

	s := c.current.Load()
	if s == nil {
		c.recordError(ErrNotConnected)
		return ErrNotConnected
	}

	c.writeMu.Lock()
	_, err := io.WriteString(s.stream, text+LineTerminator)
	c.writeMu.Unlock()

	if err != nil {
		if c.current.Load() != s {
			c.recordError(ErrNotConnected)
			return ErrNotConnected
		}
		sendErr := NewConnectionError("could not send command", err)
		c.recordError(sendErr)
		logger.Error("write failed", "host", s.host, "port", s.port, "error", err)
		c.closeSession(s)
		return sendErr
	}

	logger.Debug("sent", "line", text)
	return nil
}

// ReadLine blocks until a full line is received and returns it without the
// line terminator.
//
// A line longer than MaxLineLength is skipped and reported as
// ErrLineTooLong; the connection stays open. Any other error closes the
// connection. After a local Disconnect the error is ErrNotConnected.
func (c *Conn) ReadLine() (string, error) {
	return c.readFrom(c.current.Load())
}

// readFrom reads the next line of s. It fails with ErrNotConnected once s
// is no longer the open session, so a reader never moves on to a newer
// connection.
func (c *Conn) readFrom(s *session) (string, error) {
	if !c.isCurrent(s) {
		c.recordError(ErrNotConnected)
		return "", ErrNotConnected
	}

	line, err := readLimitedLine(s.reader, MaxLineLength)
	if err != nil {
		if errors.Is(err, ErrLineTooLong) {
			return "", err
		}
		if c.current.Load() != s {
			// Closed locally while blocked in the read.
			c.recordError(ErrNotConnected)
			return "", ErrNotConnected
		}
		readErr := NewConnectionError("reading from socket failed", err)
		c.recordError(readErr)
		c.closeSession(s)
		return "", readErr
	}

	return line, nil
}

// readLimitedLine reads up to the next newline. A line longer than max
// (excluding "\r\n") is consumed in full and reported as ErrLineTooLong
// without buffering it. A final line without a newline before EOF is
// returned as a line.
func readLimitedLine(r *bufio.Reader, max int) (string, error) {
	var buf []byte
	tooLong := false

	for {
		frag, err := r.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(frag) > max+2 {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, frag...)
			}
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil {
			if err == io.EOF && len(buf) > 0 && !tooLong {
				break
			}
			return "", err
		}
		break
	}

	line := strings.TrimRight(string(buf), "\r\n")
	if tooLong || len(line) > max {
		return "", ErrLineTooLong
	}
	return line, nil
}
