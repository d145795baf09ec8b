// =============================================================================
// mockserver_test.go - Mock Chat Server for Testing
// =============================================================================
//
// A minimal in-process chat server on a loopback TCP port. Each line the
// client sends is recorded and passed to a handler whose return value is
// written back. Tests can also push unsolicited lines (messages from other
// users) with broadcast.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

type mockServer struct {
	listener net.Listener

	// handler returns the text to send back for one received line,
	// including line terminators. An empty string sends nothing.
	handler func(line string) string

	// received gets every line the client sent.
	received chan string

	mu          sync.Mutex
	connections []net.Conn

	wg sync.WaitGroup
}

func startMockServer(t *testing.T, handler func(line string) string) *mockServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create mock server listener: %v", err)
	}

	if handler == nil {
		handler = defaultMockHandler
	}

	ms := &mockServer{
		listener: listener,
		handler:  handler,
		received: make(chan string, 64),
	}

	ms.wg.Add(1)
	go ms.acceptLoop()

	t.Cleanup(ms.stop)
	return ms
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
		ms.connections = append(ms.connections, conn)
		ms.mu.Unlock()

		ms.wg.Add(1)
		go ms.handleConnection(conn)
	}
}

func (ms *mockServer) handleConnection(conn net.Conn) {
	defer ms.wg.Done()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		ms.received <- line
		if reply := ms.handler(line); reply != "" {
			fmt.Fprint(conn, reply)
		}
	}
}

// broadcast sends text to every connected client.
func (ms *mockServer) broadcast(text string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, conn := range ms.connections {
		fmt.Fprint(conn, text)
	}
}

// dropClients closes every client connection from the server side.
func (ms *mockServer) dropClients() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, conn := range ms.connections {
		conn.Close()
	}
	ms.connections = nil
}

// nextLine returns the next line the client sent.
func (ms *mockServer) nextLine(t *testing.T) string {
	t.Helper()
	select {
	case line := <-ms.received:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a line from the client")
		return ""
	}
}

func (ms *mockServer) stop() {
	ms.listener.Close()
	ms.dropClients()
	ms.wg.Wait()
}

// defaultMockHandler answers like a small but well-behaved chat server.
func defaultMockHandler(line string) string {
	command, rest, _ := strings.Cut(line, " ")
	switch command {
	case "login":
		if rest == "taken" {
			return "loginerr username already in use\n"
		}
		return "loginok\n"
	case "msg":
		return "msgok\n"
	case "privmsg":
		if strings.HasPrefix(rest, "nobody ") {
			return "msgerr recipient not found\n"
		}
		return "msgok\n"
	case "users":
		return "users alice bob\n"
	case "help":
		return "supported login msg privmsg users help\n"
	default:
		return "cmderr command not supported\n"
	}
}
