// =============================================================================
// main.go - Chat CLI Entry Point
// =============================================================================
//
// This is the main entry point for the terminal chat client. It connects to
// a chat server over TCP (or a WebSocket endpoint) using the line-oriented
// chat protocol and runs a REPL: typed lines become chat messages, server
// events are printed as they arrive.
//
// Usage:
//
//	chat                              Connect to the configured server
//	chat --host chat.example --port 1300 --user alice
//	chat --transport websocket        Use the WebSocket endpoint
//	chat --config ~/.chat.yaml        Read settings from a file
//	chat --help                       Show help
//
// Settings are layered: built-in defaults, then the YAML file, then CHAT_*
// environment variables, then command-line flags.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/datakomm/chatclient/chatprotocol"
	"github.com/datakomm/chatclient/internal/config"
	"github.com/datakomm/chatclient/internal/logger"
)

const (
	// version is the current version of the chat client.
	version = "1.0.0"

	// appName is the application name.
	appName = "Chat"

	// copyright is the copyright notice.
	copyright = "Copyright (c) 2026"
)

func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

func welcomeBanner() string {
	return fmt.Sprintf(`%s - Terminal Chat Client
%s

Type '.help' for available commands.
Type '/quit' to exit.
`, fullTitle(), copyright)
}

// arguments holds the parsed command line. Zero values mean "not given"
// so the config file and environment keep their say.
type arguments struct {
	host       string
	port       int
	user       string
	transport  string
	configPath string

	showHelp    bool
	showVersion bool
}

// GO CONCEPT: Hand-Written Argument Parsing
// -----------------------------------------
// The flag package insists on a single dash style and stops at the first
// non-flag. A small loop over the slice keeps "--host x" and "-h" working
// side by side and gives exact control over error messages.

// parseArguments parses argv (without the program name).
func parseArguments(argv []string) (arguments, error) {
	var args arguments
	remaining := argv

	// value consumes the argument that follows a flag.
	value := func(flag string) (string, error) {
		if len(remaining) == 0 {
			return "", fmt.Errorf("%s requires an argument", flag)
		}
		v := remaining[0]
		remaining = remaining[1:]
		return v, nil
	}

	for len(remaining) > 0 {
		arg := remaining[0]
		remaining = remaining[1:]

		var err error
		switch arg {
		case "--host":
			args.host, err = value(arg)

		case "--port":
			var s string
			if s, err = value(arg); err == nil {
				args.port, err = strconv.Atoi(s)
				if err != nil || args.port <= 0 || args.port > 65535 {
					err = fmt.Errorf("invalid port: %s", s)
				}
			}

		case "--user":
			args.user, err = value(arg)

		case "--transport":
			args.transport, err = value(arg)

		case "--config":
			args.configPath, err = value(arg)

		case "--help", "-h":
			args.showHelp = true

		case "--version", "-v":
			args.showVersion = true

		default:
			err = fmt.Errorf("unknown argument: %s", arg)
		}

		if err != nil {
			return arguments{}, err
		}
	}

	return args, nil
}

func printUsage() {
	fmt.Print(`USAGE: chat [options]

OPTIONS:
  --host <host>         Server host (default: localhost)
  --port <port>         Server port (default: 1300)
  --user <name>         Log in with this name after connecting
  --transport <kind>    tcp or websocket (default: tcp)
  --config <file>       YAML configuration file
  --help, -h            Show this help
  --version, -v         Show version

ENVIRONMENT:
  CHAT_HOST, CHAT_PORT, CHAT_USER, CHAT_TRANSPORT override the config file.
  LOG_LEVEL, LOG_FILE_ENABLED, LOG_FILE_PATH control logging.

EXAMPLES:
  chat --host chat.example --user alice
  chat --transport websocket --port 8080
`)
}

func printVersion() {
	fmt.Println(fullTitle())
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

// loadSettings builds the effective configuration from the file, the
// environment and the command line.
func loadSettings(args arguments) (*config.ClientConfig, error) {
	cfg, err := config.LoadConfig(args.configPath)
	if err != nil {
		return nil, err
	}

	if args.host != "" {
		cfg.Server.Host = args.host
	}
	if args.port != 0 {
		cfg.Server.Port = args.port
	}
	if args.user != "" {
		cfg.User.Username = args.user
	}
	if args.transport != "" {
		cfg.Server.Transport = strings.ToLower(args.transport)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newDialer picks the transport named in the configuration.
func newDialer(cfg *config.ClientConfig) chatprotocol.Dialer {
	if cfg.Server.Transport == config.TransportWebSocket {
		return chatprotocol.WebSocketDialer{
			Path:    cfg.Server.WebSocketPath,
			Timeout: cfg.ConnectTimeout(),
		}
	}
	return chatprotocol.TCPDialer{Timeout: cfg.ConnectTimeout()}
}

// setupSignalHandler runs cleanup and exits on SIGINT or SIGTERM.
func setupSignalHandler(cleanup func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println()
		cleanup()
		os.Exit(0)
	}()
}

func main() {
	args, err := parseArguments(os.Args[1:])
	if err != nil {
		printError(err.Error())
		printUsage()
		os.Exit(1)
	}

	if args.showHelp {
		printUsage()
		return
	}

	if args.showVersion {
		printVersion()
		return
	}

	cfg, err := loadSettings(args)
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	logConfig, _ := logger.LoadConfig(args.configPath)
	if err := logger.Initialize(logConfig); err != nil {
		printError(fmt.Sprintf("logging disabled: %v", err))
	}

	client := chatprotocol.NewClientWithDialer(newDialer(cfg))
	editor := NewLineEditor(cfg.HistoryPath(), cfg.CLI.HistorySize)

	r := newREPL(client, editor, editor.Writer(), os.Stderr)
	r.defaultHost = cfg.Server.Host
	r.defaultPort = cfg.Server.Port
	r.username = cfg.User.Username

	cleanup := func() {
		client.Disconnect()
		editor.Close()
	}
	setupSignalHandler(func() {
		cleanup()
		logger.Close()
	})

	// Piped input gets no banner so the output stays a plain transcript.
	if editor.IsInteractive() {
		fmt.Print(welcomeBanner())
		fmt.Println()
	}

	// Blocks until /quit, .quit or Ctrl-D.
	r.run(context.Background(), true)

	cleanup()
	client.Wait()
	logger.Close()
}
