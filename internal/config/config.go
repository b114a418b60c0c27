package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"autobk/internal/autobk"
)

// Config represents the main configuration for autobk.
// The db_* keys sit at the top level of the document, matching the settings
// file earlier releases embedded at build time.
type Config struct {
	DatabaseConfig
	LogDir  string        `toml:"log_dir"`
	Log     LogConfig     `toml:"log"`
	Trigger TriggerConfig `toml:"trigger"`
}

// DatabaseConfig holds the connection settings for the Device table.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"db_type,omitempty"` // "mysql" (default), "sqlite" or "memory"
	Host    string `toml:"db_host"`
	Port    int    `toml:"db_port,omitempty"` // defaults to 3306
	Name    string `toml:"db_name"`
	User    string `toml:"db_user"`
	Pass    string `toml:"db_pass"`
	PassAge string `toml:"db_pass_age,omitempty"` // age-armored db_pass, used when db_pass is empty

	Params map[string]string `toml:"db_params,omitempty"` // extra MySQL DSN parameters
	Path   string            `toml:"db_path,omitempty"`   // only used for type=sqlite

	ConnectAttempts int `toml:"connect_attempts,omitempty"` // ping attempts before giving up; defaults to 1
}

// LogConfig controls the operation log.
type LogConfig struct {
	Level      string `toml:"level"`  // "debug", "info" (default), "warn" or "error"
	Stderr     bool   `toml:"stderr"` // mirror log lines to stderr
	MaxSizeMB  int    `toml:"max_size_mb,omitempty"`
	MaxBackups int    `toml:"max_backups,omitempty"`
	MaxAgeDays int    `toml:"max_age_days,omitempty"`
}

// TriggerConfig selects where backup requests are handed off.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type TriggerConfig struct {
	Type string `toml:"type"` // "spool" (default), "s3", "redis" or "memory"

	// Spool-specific fields (only used when Type == "spool")
	SpoolDir string `toml:"spool_dir,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3Endpoint  string `toml:"s3_endpoint,omitempty"`
	S3AccessKey string `toml:"s3_access_key,omitempty"`
	S3SecretKey string `toml:"s3_secret_key,omitempty"`

	// Redis-specific fields (only used when Type == "redis")
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty"`
	RedisStream   string `toml:"redis_stream,omitempty"`
}

// Environment variables that override the database settings.
const (
	EnvDBType = "AUTOBK_DB_TYPE"
	EnvDBHost = "AUTOBK_DB_HOST"
	EnvDBPort = "AUTOBK_DB_PORT"
	EnvDBName = "AUTOBK_DB_NAME"
	EnvDBUser = "AUTOBK_DB_USER"
	EnvDBPass = "AUTOBK_DB_PASS"
)

// NewConfig creates a new Config with default paths under baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		DatabaseConfig: DatabaseConfig{
			Type: "mysql",
			Host: "localhost",
			Name: "autobk",
			User: "autobk",
		},
		LogDir: filepath.Join(baseDir, "log"),
		Log:    LogConfig{Level: "info"},
		Trigger: TriggerConfig{
			Type:     "spool",
			SpoolDir: filepath.Join(baseDir, "spool"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config file at path, applies environment overrides and
// validates the result. A missing file is tolerated so the environment alone
// can supply the settings. Every failure wraps autobk.ErrConfig.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg, err := ReadFromFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", autobk.ErrConfig, err)
		}
		cfg = &Config{}
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides database settings with non-empty environment values.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Type, EnvDBType)
	set(&c.Host, EnvDBHost)
	set(&c.Name, EnvDBName)
	set(&c.User, EnvDBUser)
	set(&c.Pass, EnvDBPass)

	if v := getenv(EnvDBPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: invalid port %q", autobk.ErrConfig, EnvDBPort, v)
		}
		c.Port = port
	}
	return nil
}

// Validate checks that the keys required by the selected database type are present.
func (c *Config) Validate() error {
	switch c.Type {
	case "mysql", "":
		var missing []string
		if c.Host == "" {
			missing = append(missing, "db_host")
		}
		if c.Name == "" {
			missing = append(missing, "db_name")
		}
		if c.User == "" {
			missing = append(missing, "db_user")
		}
		if c.Pass == "" && c.PassAge == "" {
			missing = append(missing, "db_pass")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: missing %s", autobk.ErrConfig, strings.Join(missing, ", "))
		}
	case "sqlite":
		if c.Path == "" {
			return fmt.Errorf("%w: missing db_path", autobk.ErrConfig)
		}
	case "memory":
	default:
		return fmt.Errorf("%w: unknown db_type %q", autobk.ErrConfig, c.Type)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: db_port out of range: %d", autobk.ErrConfig, c.Port)
	}
	return nil
}

// Redacted returns a copy of the config with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	out.Pass = mask(c.Pass)
	out.PassAge = mask(c.PassAge)
	out.Trigger.S3SecretKey = mask(c.Trigger.S3SecretKey)
	out.Trigger.RedisPassword = mask(c.Trigger.RedisPassword)
	return &out
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file carries database credentials.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
