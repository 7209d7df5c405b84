package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSchedule       = "0 */2 * * *"
	DefaultPurgeBatchSize = 500
	MaxPurgeBatchSize     = 500
	DefaultPort           = 5432

	LoadModeInsert = "insert"
	LoadModeCopy   = "copy"
)

// Config holds all runtime configuration for a locsync process.
type Config struct {
	ConfigPath     string `yaml:"-"`
	EnvFile        string `yaml:"-"`
	LogFormat      string `yaml:"log_format"` // "text" or "json"
	LogLevel       string `yaml:"log_level"`
	Schedule       string `yaml:"schedule"`
	ListenAddr     string `yaml:"listen_addr"`
	PurgeBatchSize int    `yaml:"purge_batch_size"`
	LoadMode       string `yaml:"load_mode"`
	SnapshotDir    string `yaml:"snapshot_dir"`
	Source         Source `yaml:"source"`
	Units          []Unit `yaml:"units"`
}

// Source describes the document store all units read from.
type Source struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// Unit pairs one source collection with its destination database.
type Unit struct {
	Name        string      `yaml:"name"`
	Collection  string      `yaml:"collection"`
	Destination Destination `yaml:"destination"`
}

// Destination holds connection parameters for a unit's Postgres database.
type Destination struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN renders the destination as a Postgres connection URL.
func (d Destination) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Database,
	}
	if d.User != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.User, d.Password)
		} else {
			u.User = url.User(d.User)
		}
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// String identifies the destination in logs without the password.
func (d Destination) String() string {
	return fmt.Sprintf("%s@%s:%d/%s", d.User, d.Host, d.Port, d.Database)
}

// LoadEnv loads variables from an env file. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// LoadFromFile reads a YAML config file, expands ${VAR} references from the
// environment and merges its values into Config. Values already set on c
// (from flags) are kept when the file leaves them empty.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc Config
	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	c.ConfigPath = path
	c.Source = fc.Source
	c.Units = fc.Units
	c.SnapshotDir = fc.SnapshotDir
	if fc.LogFormat != "" && c.LogFormat == "" {
		c.LogFormat = fc.LogFormat
	}
	if fc.LogLevel != "" && c.LogLevel == "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.Schedule != "" {
		c.Schedule = fc.Schedule
	}
	if fc.ListenAddr != "" {
		c.ListenAddr = fc.ListenAddr
	}
	if fc.PurgeBatchSize != 0 {
		c.PurgeBatchSize = fc.PurgeBatchSize
	}
	if fc.LoadMode != "" {
		c.LoadMode = fc.LoadMode
	}
	c.applyDefaults()
	return nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references with their environment values. Bare
// $ characters are left alone so literal values such as passwords survive.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

func (c *Config) applyDefaults() {
	if c.Schedule == "" {
		c.Schedule = DefaultSchedule
	}
	if c.ListenAddr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		c.ListenAddr = ":" + port
	}
	if c.PurgeBatchSize == 0 {
		c.PurgeBatchSize = DefaultPurgeBatchSize
	}
	if c.LoadMode == "" {
		c.LoadMode = LoadModeInsert
	}
	for i := range c.Units {
		if c.Units[i].Destination.Port == 0 {
			c.Units[i].Destination.Port = DefaultPort
		}
	}
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.Source.URI == "" {
		return fmt.Errorf("source.uri is required")
	}
	if c.Source.Database == "" {
		return fmt.Errorf("source.database is required")
	}
	if len(c.Units) == 0 {
		return fmt.Errorf("at least one unit is required")
	}
	if c.PurgeBatchSize < 1 || c.PurgeBatchSize > MaxPurgeBatchSize {
		return fmt.Errorf("purge_batch_size must be between 1 and %d, got %d", MaxPurgeBatchSize, c.PurgeBatchSize)
	}
	if c.LoadMode != LoadModeInsert && c.LoadMode != LoadModeCopy {
		return fmt.Errorf("unknown load_mode %q", c.LoadMode)
	}
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
	}

	seen := make(map[string]bool, len(c.Units))
	for i, u := range c.Units {
		if u.Name == "" {
			return fmt.Errorf("units[%d]: name is required", i)
		}
		if seen[u.Name] {
			return fmt.Errorf("duplicate unit name %q", u.Name)
		}
		seen[u.Name] = true
		if u.Collection == "" {
			return fmt.Errorf("unit %q: collection is required", u.Name)
		}
		if u.Destination.Host == "" {
			return fmt.Errorf("unit %q: destination.host is required", u.Name)
		}
		if u.Destination.Database == "" {
			return fmt.Errorf("unit %q: destination.database is required", u.Name)
		}
		if u.Destination.Port < 1 || u.Destination.Port > 65535 {
			return fmt.Errorf("unit %q: invalid destination.port %d", u.Name, u.Destination.Port)
		}
	}
	return nil
}

// Unit returns the configured unit with the given name, or ok=false.
func (c *Config) Unit(name string) (Unit, bool) {
	for _, u := range c.Units {
		if u.Name == name {
			return u, true
		}
	}
	return Unit{}, false
}
