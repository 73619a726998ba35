package config

import (
	"flag"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// WebSocketConfig holds event feed connection tuning
type WebSocketConfig struct {
	WriteTimeout time.Duration `yaml:"write_timeout"` // timeout for writing messages
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // keepalive read deadline
	PingInterval time.Duration `yaml:"ping_interval"` // interval between pings
}

// SessionConfig holds session lifecycle tuning
type SessionConfig struct {
	LocateAttempts int           `yaml:"locate_attempts"` // container lookup retries after the first miss
	LocateInterval time.Duration `yaml:"locate_interval"` // delay between container lookups
	LeaveDeadline  time.Duration `yaml:"leave_deadline"`  // upper bound on the SDK leave call
}

// GridConfig holds grid compositor tuning
type GridConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`  // fallback refresh period
	CellMinWidth int           `yaml:"cell_min_width"` // minimum per-cell width in px
	RenderWidth  int           `yaml:"render_width"`   // per-canvas video width
	RenderHeight int           `yaml:"render_height"`  // per-canvas video height
	Quality      int           `yaml:"quality"`        // SDK video quality tier
}

type Config struct {
	// Zoom SDK credentials
	ClientKey    string `yaml:"client_key"`
	ClientSecret string `yaml:"client_secret"`

	// Server configuration
	HTTPAddr string `yaml:"http_addr"`
	LogLevel string `yaml:"log_level"`

	Session   SessionConfig   `yaml:"session"`
	Grid      GridConfig      `yaml:"grid"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTPAddr: ":8080",
		LogLevel: "info",

		Session: SessionConfig{
			LocateAttempts: 10,
			LocateInterval: 200 * time.Millisecond,
			LeaveDeadline:  2 * time.Second,
		},
		Grid: GridConfig{
			PollInterval: 5 * time.Second,
			CellMinWidth: 320,
			RenderWidth:  256,
			RenderHeight: 144,
			Quality:      2,
		},
		WebSocket: WebSocketConfig{
			WriteTimeout: 5 * time.Second,
			ReadTimeout:  3 * time.Minute,
			PingInterval: 60 * time.Second,
		},
	}
}

// LoadFile overlays YAML from path onto cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func Load() (*Config, error) {
	cfg := Default()

	// Config file first, so env and flags can override it
	if path := os.Getenv("ZOOM_EMBED_CONFIG"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Load from environment variables
	if key := os.Getenv("ZOOM_CLIENT_KEY"); key != "" {
		cfg.ClientKey = key
	}
	if secret := os.Getenv("ZOOM_CLIENT_SECRET"); secret != "" {
		cfg.ClientSecret = secret
	}
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	// Parse command line flags
	flag.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP server address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.ClientKey, "client-key", cfg.ClientKey, "Zoom SDK client key")
	flag.StringVar(&cfg.ClientSecret, "client-secret", cfg.ClientSecret, "Zoom SDK client secret")
	flag.Parse()

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ClientKey == "" {
		return ErrMissingClientKey
	}
	if c.ClientSecret == "" {
		return ErrMissingClientSecret
	}
	return nil
}
