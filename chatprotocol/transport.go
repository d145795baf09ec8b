package chatprotocol

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Dialer opens the byte stream a Conn reads lines from and writes lines to.
// Reads and writes on the returned stream may happen concurrently from two
// goroutines; Close must unblock a pending Read.
type Dialer interface {
	Dial(ctx context.Context, host string, port int) (io.ReadWriteCloser, error)
}

// TCPDialer dials a plain TCP connection.
type TCPDialer struct {
	// Timeout bounds the dial. Zero means no timeout beyond ctx.
	Timeout time.Duration
}

// Dial implements Dialer.
func (d TCPDialer) Dial(ctx context.Context, host string, port int) (io.ReadWriteCloser, error) {
	nd := net.Dialer{Timeout: d.Timeout}
	return nd.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
}

// WebSocketDialer carries the protocol over a WebSocket. Each protocol line
// travels as one text frame without its terminator.
type WebSocketDialer struct {
	// Path is the URL path of the chat endpoint, e.g. "/chat".
	Path string

	// Secure selects wss:// instead of ws://.
	Secure bool

	// Timeout bounds the handshake. Zero means no timeout beyond ctx.
	Timeout time.Duration
}

// URL returns the WebSocket URL for host and port.
func (d WebSocketDialer) URL(host string, port int) string {
	scheme := "ws"
	if d.Secure {
		scheme = "wss"
	}
	path := d.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := url.URL{Scheme: scheme, Host: net.JoinHostPort(host, strconv.Itoa(port)), Path: path}
	return u.String()
}

// Dial implements Dialer.
func (d WebSocketDialer) Dial(ctx context.Context, host string, port int) (io.ReadWriteCloser, error) {
	wd := websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: d.Timeout,
	}
	ws, resp, err := wd.DialContext(ctx, d.URL(host, port), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket handshake: %s: %w", resp.Status, err)
		}
		return nil, err
	}
	return newWebSocketStream(ws), nil
}

// webSocketStream adapts a websocket.Conn to a newline-delimited stream.
type webSocketStream struct {
	ws *websocket.Conn

	// pending holds the unread part of the last received frame.
	pending bytes.Buffer

	writeMu sync.Mutex
}

func newWebSocketStream(ws *websocket.Conn) *webSocketStream {
	return &webSocketStream{ws: ws}
}

// Read returns frame contents with a newline appended to each frame.
func (s *webSocketStream) Read(p []byte) (int, error) {
	for s.pending.Len() == 0 {
		msgType, data, err := s.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		if msgType != websocket.TextMessage {
			continue
		}
		s.pending.Write(data)
		if !bytes.HasSuffix(data, []byte(LineTerminator)) {
			s.pending.WriteString(LineTerminator)
		}
	}
	return s.pending.Read(p)
}

// Write sends each complete or partial line in p as its own text frame.
func (s *webSocketStream) Write(p []byte) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, line := range strings.Split(strings.TrimSuffix(string(p), LineTerminator), LineTerminator) {
		if err := s.ws.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Close sends a close frame and closes the underlying connection.
// The close frame is best-effort; the peer may already be gone.
func (s *webSocketStream) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	s.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return s.ws.Close()
}
