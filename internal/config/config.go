// Package config loads the chat client's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport names accepted in ServerConfig.Transport.
const (
	TransportTCP       = "tcp"
	TransportWebSocket = "websocket"
)

// ClientConfig holds all client settings. The logging section of the same
// file is read separately by the logger package.
type ClientConfig struct {
	Server ServerConfig `yaml:"server"`
	User   UserConfig   `yaml:"user"`
	CLI    CLIConfig    `yaml:"cli"`
}

// ServerConfig describes where and how to connect.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Transport is "tcp" or "websocket".
	Transport string `yaml:"transport"`

	// WebSocketPath is the URL path used when Transport is "websocket".
	WebSocketPath string `yaml:"websocket_path"`

	// ConnectTimeoutSeconds bounds the dial. 0 blocks until the peer
	// answers or refuses.
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds"`
}

// UserConfig holds the identity sent with the login command.
type UserConfig struct {
	Username string `yaml:"username"`
}

// CLIConfig holds terminal client settings.
type CLIConfig struct {
	// HistoryFile may start with "~/" for the home directory.
	HistoryFile string `yaml:"history_file"`
	HistorySize int    `yaml:"history_size"`
}

// DefaultConfig returns a ClientConfig with the stock settings.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Server: ServerConfig{
			Host:          "localhost",
			Port:          1300,
			Transport:     TransportTCP,
			WebSocketPath: "/chat",
		},
		CLI: CLIConfig{
			HistoryFile: "~/.chat_history",
			HistorySize: 500,
		},
	}
}

// LoadConfig loads client configuration from a YAML file and applies
// environment overrides. A missing file yields the defaults.
func LoadConfig(path string) (*ClientConfig, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return config, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := config.applyEnv(); err != nil {
		return config, err
	}

	return config, nil
}

func (c *ClientConfig) applyEnv() error {
	if host := os.Getenv("CHAT_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("CHAT_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("CHAT_PORT: invalid port %q", port)
		}
		c.Server.Port = p
	}
	if user := os.Getenv("CHAT_USER"); user != "" {
		c.User.Username = user
	}
	if transport := os.Getenv("CHAT_TRANSPORT"); transport != "" {
		c.Server.Transport = strings.ToLower(transport)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *ClientConfig) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("server.host must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Transport {
	case TransportTCP, TransportWebSocket:
	default:
		return fmt.Errorf("server.transport %q: want %q or %q", c.Server.Transport, TransportTCP, TransportWebSocket)
	}
	if c.Server.ConnectTimeoutSeconds < 0 {
		return fmt.Errorf("server.connect_timeout_seconds must not be negative")
	}
	if strings.ContainsAny(c.User.Username, " \t\r\n") {
		return fmt.Errorf("user.username %q must be a single word", c.User.Username)
	}
	return nil
}

// ConnectTimeout returns the dial timeout as a duration.
func (c *ClientConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.Server.ConnectTimeoutSeconds) * time.Second
}

// HistoryPath expands a leading "~/" in the history file setting.
func (c *ClientConfig) HistoryPath() string {
	path := c.CLI.HistoryFile
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
		return ""
	}
	return path
}
