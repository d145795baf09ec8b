// =============================================================================
// repl.go - REPL Loop and Event Printer
// =============================================================================
//
// The REPL reads lines from the LineEditor, translates them (translate.go)
// and either sends a protocol command or performs a local action.
//
// Server events arrive on the client's reader goroutine. The REPL registers
// a ChannelListener and drains it on its own printer goroutine, so a slow
// terminal never stalls the network reader for longer than the channel
// buffer allows.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/datakomm/chatclient/chatprotocol"
	"github.com/datakomm/chatclient/internal/logger"
)

// eventBuffer is the capacity of the REPL's event channel.
const eventBuffer = 64

// lineReader is the part of LineEditor the REPL needs.
type lineReader interface {
	GetLine(prompt string) (string, error)
}

// repl holds the state of one interactive session.
type repl struct {
	client *chatprotocol.Client
	input  lineReader

	// defaultHost and defaultPort are used by a bare /connect.
	defaultHost string
	defaultPort int

	// mu serialises writes from the REPL and the printer goroutine and
	// guards username.
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	username string
}

func newREPL(client *chatprotocol.Client, input lineReader, out, errOut io.Writer) *repl {
	return &repl{
		client: client,
		input:  input,
		out:    out,
		errOut: errOut,
	}
}

// prompt reflects the connection state.
func (r *repl) prompt() string {
	if !r.client.IsConnected() {
		return "[offline] > "
	}
	r.mu.Lock()
	name := r.username
	r.mu.Unlock()
	if r.client.IsLoggedIn() && name != "" {
		return fmt.Sprintf("[%s@%s] > ", name, r.client.RemoteAddr())
	}
	return fmt.Sprintf("[%s] > ", r.client.RemoteAddr())
}

func (r *repl) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

func (r *repl) printError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.errOut, "Error: %v\n", err)
}

// connect opens a connection and, when a username is known, logs in.
func (r *repl) connect(ctx context.Context, host string, port int) error {
	if host == "" {
		host = r.defaultHost
	}
	if port == 0 {
		port = r.defaultPort
	}

	r.printf("Connecting to %s:%d...\n", host, port)
	if err := r.client.Connect(ctx, host, port); err != nil {
		return err
	}
	r.printf("Connected to %s\n", r.client.RemoteAddr())

	r.mu.Lock()
	name := r.username
	r.mu.Unlock()
	if name != "" {
		return r.client.TryLogin(name)
	}
	return nil
}

// run reads input until EOF or a quit command. With autoConnect it first
// connects to the default server, after the event printer is running so
// the login answer is not missed.
func (r *repl) run(ctx context.Context, autoConnect bool) {
	events := chatprotocol.NewChannelListener(eventBuffer)
	r.client.AddListener(events)

	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		for e := range events.Events() {
			r.printEvent(e)
		}
	}()

	defer func() {
		r.client.RemoveListener(events)
		events.Close()
		<-printerDone
	}()

	if autoConnect {
		if err := r.connect(ctx, "", 0); err != nil {
			r.printError(err)
			r.printf("Use /connect to try again.\n")
		}
	}

	for {
		line, err := r.input.GetLine(r.prompt())
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.printError(err)
			}
			r.printf("\n")
			return
		}

		if !r.handleLine(ctx, line) {
			return
		}
	}
}

// handleLine executes one input line. It returns false when the REPL
// should stop.
func (r *repl) handleLine(ctx context.Context, line string) bool {
	a, err := translateInput(line)
	if err != nil {
		r.printError(err)
		return true
	}

	switch a.kind {
	case actionNone:

	case actionQuit:
		return false

	case actionLocalHelp:
		r.mu.Lock()
		printHelp(r.out, r.errOut, a.topic)
		r.mu.Unlock()

	case actionConnect:
		if err := r.connect(ctx, a.host, a.port); err != nil {
			r.printError(err)
		}

	case actionDisconnect:
		if !r.client.IsConnected() {
			r.printError(chatprotocol.ErrNotConnected)
			return true
		}
		r.client.Disconnect()

	case actionSend:
		r.send(a.cmd)
	}

	return true
}

func (r *repl) send(cmd chatprotocol.Command) {
	if cmd.Type == chatprotocol.CmdLogin {
		r.mu.Lock()
		r.username = cmd.Username
		r.mu.Unlock()
	}

	if err := r.client.SendCommand(cmd); err != nil {
		if errors.Is(err, chatprotocol.ErrNotConnected) {
			err = fmt.Errorf("%w; use /connect first", err)
		}
		r.printError(err)
		return
	}
	logger.Debug("command sent", "command", cmd.Format())
}

// printEvent renders one server event for the terminal.
func (r *repl) printEvent(e chatprotocol.Event) {
	switch e.Type {
	case chatprotocol.EventLoginResult:
		if e.Success {
			r.printf("*** Logged in\n")
		} else {
			r.printf("*** Login failed: %s\n", e.Message)
		}

	case chatprotocol.EventDisconnect:
		r.printf("*** Disconnected from server\n")

	case chatprotocol.EventUserList:
		r.printf("*** Users online (%d): %s\n", len(e.Users), strings.Join(e.Users, ", "))

	case chatprotocol.EventMessage:
		if e.Text.Private {
			r.printf("*%s* %s\n", e.Text.Sender, e.Text.Text)
		} else {
			r.printf("<%s> %s\n", e.Text.Sender, e.Text.Text)
		}

	case chatprotocol.EventMessageError:
		r.printf("*** Message not delivered: %s\n", e.Message)

	case chatprotocol.EventCommandError:
		r.printf("*** Server rejected command: %s\n", e.Message)

	case chatprotocol.EventSupportedCommands:
		r.printf("*** Server supports: %s\n", strings.Join(e.Commands, " "))
	}
}
