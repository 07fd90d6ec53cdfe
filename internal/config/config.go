package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/vango-dev/landing/internal/errors"
	"github.com/vango-dev/landing/pkg/live"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "landing.yaml"

	// EnvPrefix prefixes environment overrides: LANDING_SERVER_ADDR sets
	// server.addr.
	EnvPrefix = "LANDING_"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultOutput is the default export directory.
	DefaultOutput = "dist"
)

// Duration is a time.Duration written as "10s" in YAML and environment
// variables.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the complete landing.yaml configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Live    LiveConfig    `yaml:"live" koanf:"live"`
	Site    SiteConfig    `yaml:"site" koanf:"site"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
	Publish PublishConfig `yaml:"publish" koanf:"publish"`

	path string
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string   `yaml:"addr" koanf:"addr"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`

	// AllowedOrigins lists extra origins allowed for CORS and the live
	// WebSocket, for pages hosted elsewhere. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`

	// Metrics enables GET /metrics.
	Metrics bool `yaml:"metrics" koanf:"metrics"`
}

// LiveConfig configures live sessions. Zero values use the live defaults.
type LiveConfig struct {
	ReadTimeout       Duration `yaml:"read_timeout" koanf:"read_timeout"`
	WriteTimeout      Duration `yaml:"write_timeout" koanf:"write_timeout"`
	HandshakeTimeout  Duration `yaml:"handshake_timeout" koanf:"handshake_timeout"`
	HeartbeatInterval Duration `yaml:"heartbeat_interval" koanf:"heartbeat_interval"`
	MaxMessageSize    int64    `yaml:"max_message_size" koanf:"max_message_size"`
	MaxEventQueue     int      `yaml:"max_event_queue" koanf:"max_event_queue"`
	MaxSessions       int      `yaml:"max_sessions" koanf:"max_sessions"`

	// Locale fixes the form copy. Empty follows each browser.
	Locale string `yaml:"locale" koanf:"locale"`
}

// SiteConfig configures the page.
type SiteConfig struct {
	// Content is a YAML file overriding the built-in copy.
	Content string `yaml:"content" koanf:"content"`

	// LiveURL is the WebSocket endpoint written into pages. Empty uses
	// the serving host.
	LiveURL string `yaml:"live_url" koanf:"live_url"`

	// AssetPrefix is prepended to asset URLs in exported pages.
	AssetPrefix string `yaml:"asset_prefix" koanf:"asset_prefix"`

	// Output is the export directory.
	Output string `yaml:"output" koanf:"output"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level" koanf:"level"`

	// Format is text or json.
	Format string `yaml:"format" koanf:"format"`

	// File, when set, receives logs with size-based rotation.
	File       string `yaml:"file" koanf:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" koanf:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" koanf:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" koanf:"max_age_days"`
	Compress   bool   `yaml:"compress" koanf:"compress"`
}

// PublishConfig configures S3 publishing.
type PublishConfig struct {
	Bucket       string `yaml:"bucket" koanf:"bucket"`
	Prefix       string `yaml:"prefix" koanf:"prefix"`
	Region       string `yaml:"region" koanf:"region"`
	Endpoint     string `yaml:"endpoint" koanf:"endpoint"`
	CacheControl string `yaml:"cache_control" koanf:"cache_control"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: Duration(10 * time.Second),
			Metrics:         true,
		},
		Live: LiveConfig{
			ReadTimeout:       Duration(60 * time.Second),
			WriteTimeout:      Duration(10 * time.Second),
			HandshakeTimeout:  Duration(10 * time.Second),
			HeartbeatInterval: Duration(30 * time.Second),
			MaxMessageSize:    64 * 1024,
			MaxEventQueue:     256,
		},
		Site: SiteConfig{
			Output: DefaultOutput,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Publish: PublishConfig{
			Region:       "us-east-1",
			CacheControl: "public, max-age=300",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// LANDING_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := New()
	cfg.path = path

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.New("E101").Wrap(err).WithDetailf("Reading %s failed.", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.New("E101").Wrap(err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = envKey(key)
		if strings.HasSuffix(key, "allowed_origins") {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, errors.New("E101").Wrap(err).WithDetail("Loading environment overrides failed.")
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.New("E102").Wrap(err)
	}
	return cfg, nil
}

// envKey maps LANDING_LIVE_READ_TIMEOUT to live.read_timeout.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return errors.New("E104").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E104").Wrap(err).WithDetailf("Writing %s failed.", path)
	}
	return nil
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"text": true, "json": true}
)

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New("E102").WithDetailf(format, args...)
	}
	if c.Server.Addr == "" {
		return invalid("server.addr is required.")
	}
	if c.Server.ShutdownTimeout < 0 {
		return invalid("server.shutdown_timeout must be non-negative.")
	}
	for name, d := range map[string]Duration{
		"live.read_timeout":       c.Live.ReadTimeout,
		"live.write_timeout":      c.Live.WriteTimeout,
		"live.handshake_timeout":  c.Live.HandshakeTimeout,
		"live.heartbeat_interval": c.Live.HeartbeatInterval,
	} {
		if d < 0 {
			return invalid("%s must be non-negative.", name)
		}
	}
	if c.Live.ReadTimeout > 0 && c.Live.HeartbeatInterval >= c.Live.ReadTimeout {
		return invalid("live.heartbeat_interval (%s) must be shorter than live.read_timeout (%s).",
			c.Live.HeartbeatInterval.Std(), c.Live.ReadTimeout.Std())
	}
	if c.Live.MaxMessageSize < 0 || c.Live.MaxEventQueue < 0 || c.Live.MaxSessions < 0 {
		return invalid("live limits must be non-negative.")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return invalid("log.level %q must be one of debug, info, warn, error.", c.Log.Level)
	}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		return invalid("log.format %q must be text or json.", c.Log.Format)
	}
	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		return invalid("log.max_size_mb must be positive when log.file is set.")
	}
	if c.Publish.Prefix != "" && strings.HasPrefix(c.Publish.Prefix, "/") {
		return invalid("publish.prefix %q must not start with a slash.", c.Publish.Prefix)
	}
	return nil
}

// LiveConfig converts the live section to a live.Config. Zero values
// are filled by the live package.
func (c *Config) LiveConfig() *live.Config {
	lc := &live.Config{
		ReadTimeout:       c.Live.ReadTimeout.Std(),
		WriteTimeout:      c.Live.WriteTimeout.Std(),
		HandshakeTimeout:  c.Live.HandshakeTimeout.Std(),
		HeartbeatInterval: c.Live.HeartbeatInterval.Std(),
		MaxMessageSize:    c.Live.MaxMessageSize,
		MaxEventQueue:     c.Live.MaxEventQueue,
		MaxSessions:       c.Live.MaxSessions,
		Locale:            c.Live.Locale,
	}
	if len(c.Server.AllowedOrigins) > 0 {
		lc.CheckOrigin = live.AllowOrigins(c.Server.AllowedOrigins...)
	}
	return lc
}

// String returns a short description for logs.
func (c *Config) String() string {
	src := c.path
	if src == "" {
		src = "defaults"
	}
	return fmt.Sprintf("config(%s, addr=%s)", src, c.Server.Addr)
}
