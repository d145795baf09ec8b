package chatprotocol

import (
	"bufio"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"
)

// mockServer is a minimal chat server on a loopback TCP port. Tests push
// lines to the connected client with send and read what the client wrote
// from lines.
type mockServer struct {
	listener net.Listener

	// lines receives every line the client sends, without terminator.
	lines chan string

	// accepted receives each accepted connection.
	accepted chan net.Conn

	mu    sync.Mutex
	conns []net.Conn

	wg sync.WaitGroup
}

func startMockServer(t *testing.T) *mockServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ms := &mockServer{
		listener: listener,
		lines:    make(chan string, 64),
		accepted: make(chan net.Conn, 4),
	}

	ms.wg.Add(1)
	go ms.acceptLoop()

	t.Cleanup(ms.stop)
	return ms
}

func (ms *mockServer) host() string {
	return "127.0.0.1"
}

func (ms *mockServer) port() int {
	_, port, _ := net.SplitHostPort(ms.listener.Addr().String())
	p, _ := strconv.Atoi(port)
	return p
}

func (ms *mockServer) acceptLoop() {
	defer ms.wg.Done()

	for {
		conn, err := ms.listener.Accept()
		if err != nil {
			return
		}

		ms.mu.Lock()
		ms.conns = append(ms.conns, conn)
		ms.mu.Unlock()

		ms.accepted <- conn

		ms.wg.Add(1)
		go ms.readLoop(conn)
	}
}

func (ms *mockServer) readLoop(conn net.Conn) {
	defer ms.wg.Done()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		ms.lines <- scanner.Text()
	}
}

// waitConn returns the next accepted connection.
func (ms *mockServer) waitConn(t *testing.T) net.Conn {
	t.Helper()
	select {
	case conn := <-ms.accepted:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for client connection")
		return nil
	}
}

// send writes raw text to conn; the caller supplies line terminators.
func (ms *mockServer) send(t *testing.T, conn net.Conn, text string) {
	t.Helper()
	if _, err := conn.Write([]byte(text)); err != nil {
		t.Fatalf("mock server write failed: %v", err)
	}
}

// nextLine returns the next line written by the client.
func (ms *mockServer) nextLine(t *testing.T) string {
	t.Helper()
	select {
	case line := <-ms.lines:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for client line")
		return ""
	}
}

func (ms *mockServer) stop() {
	ms.listener.Close()

	ms.mu.Lock()
	for _, conn := range ms.conns {
		conn.Close()
	}
	ms.conns = nil
	ms.mu.Unlock()

	ms.wg.Wait()
}
