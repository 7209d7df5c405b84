package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `
log_format: json
source:
  uri: mongodb://localhost:27017
  database: tracking
units:
  - name: branch-a
    collection: locations_a
    destination:
      host: db-a.internal
      user: loader
      password: ${LOCSYNC_TEST_PASSWORD}
      database: fieldops_a
  - name: branch-b
    collection: locations_b
    destination:
      host: db-b.internal
      port: 6432
      database: fieldops_b
      sslmode: require
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locsync.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile_Valid(t *testing.T) {
	t.Setenv("LOCSYNC_TEST_PASSWORD", "s3cret")
	t.Setenv("PORT", "8081")
	path := writeConfig(t, sampleYAML)

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(c.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(c.Units))
	}
	if got := c.Units[0].Destination.Password; got != "s3cret" {
		t.Errorf("password not expanded from env: %q", got)
	}
	if c.Units[0].Destination.Port != DefaultPort {
		t.Errorf("expected default port, got %d", c.Units[0].Destination.Port)
	}
	if c.Units[1].Destination.Port != 6432 {
		t.Errorf("expected explicit port 6432, got %d", c.Units[1].Destination.Port)
	}
	if c.Schedule != DefaultSchedule {
		t.Errorf("expected default schedule, got %q", c.Schedule)
	}
	if c.PurgeBatchSize != DefaultPurgeBatchSize {
		t.Errorf("expected default batch size, got %d", c.PurgeBatchSize)
	}
	if c.LoadMode != LoadModeInsert {
		t.Errorf("expected insert load mode, got %q", c.LoadMode)
	}
	if c.ListenAddr != ":8081" {
		t.Errorf("expected listen addr from PORT, got %q", c.ListenAddr)
	}
	if c.LogFormat != "json" {
		t.Errorf("expected log format from file, got %q", c.LogFormat)
	}
}

func TestLoadFromFile_LiteralDollarKept(t *testing.T) {
	t.Setenv("LOCSYNC_TEST_PASSWORD", "s3cret")
	t.Setenv("w0rd", "oops")
	body := strings.Replace(sampleYAML, "port: 6432", "port: 6432\n      password: pa$$w0rd$w0rd", 1)
	path := writeConfig(t, body)

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if got := c.Units[1].Destination.Password; got != "pa$$w0rd$w0rd" {
		t.Errorf("literal $ should be kept, got %q", got)
	}
	if got := c.Units[0].Destination.Password; got != "s3cret" {
		t.Errorf("${VAR} should still expand, got %q", got)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("LOCSYNC_TEST_HOST", "db.internal")
	tests := []struct {
		in, want string
	}{
		{"${LOCSYNC_TEST_HOST}", "db.internal"},
		{"host-${LOCSYNC_TEST_HOST}:5432", "host-db.internal:5432"},
		{"$LOCSYNC_TEST_HOST", "$LOCSYNC_TEST_HOST"},
		{"${LOCSYNC_TEST_UNSET_VAR}", ""},
		{"a$b$$c", "a$b$$c"},
		{"${not valid}", "${not valid}"},
	}
	for _, tc := range tests {
		if got := expandEnv(tc.in); got != tc.want {
			t.Errorf("expandEnv(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadFromFile_FlagWins(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	c := Config{LogFormat: "text"}
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.LogFormat != "text" {
		t.Errorf("flag value should win, got %q", c.LogFormat)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	if err := c.LoadFromFile("/nonexistent/locsync.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFromFile_BadYAML(t *testing.T) {
	path := writeConfig(t, "units: [\n")
	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no source uri", func(c *Config) { c.Source.URI = "" }, "source.uri"},
		{"no units", func(c *Config) { c.Units = nil }, "at least one unit"},
		{"duplicate unit", func(c *Config) { c.Units[1].Name = c.Units[0].Name }, "duplicate"},
		{"no collection", func(c *Config) { c.Units[0].Collection = "" }, "collection"},
		{"no host", func(c *Config) { c.Units[1].Destination.Host = "" }, "destination.host"},
		{"batch too large", func(c *Config) { c.PurgeBatchSize = 501 }, "purge_batch_size"},
		{"batch zero", func(c *Config) { c.PurgeBatchSize = -1 }, "purge_batch_size"},
		{"bad load mode", func(c *Config) { c.LoadMode = "bulk" }, "load_mode"},
		{"bad schedule", func(c *Config) { c.Schedule = "every two hours" }, "schedule"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var c Config
			if err := c.LoadFromFile(writeConfig(t, sampleYAML)); err != nil {
				t.Fatalf("LoadFromFile: %v", err)
			}
			tc.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestDestinationDSN(t *testing.T) {
	d := Destination{Host: "db", Port: 5432, User: "loader", Password: "p@ss", Database: "fieldops", SSLMode: "disable"}
	want := "postgres://loader:p%40ss@db:5432/fieldops?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
	if s := d.String(); strings.Contains(s, "p@ss") {
		t.Errorf("String should not leak the password: %q", s)
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(path, []byte("LOCSYNC_TEST_FROM_ENV=yes\n"), 0644)
	t.Setenv("LOCSYNC_TEST_FROM_ENV", "")
	os.Unsetenv("LOCSYNC_TEST_FROM_ENV")

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv("LOCSYNC_TEST_FROM_ENV"); got != "yes" {
		t.Errorf("expected variable from env file, got %q", got)
	}
	if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
}

func TestUnitLookup(t *testing.T) {
	var c Config
	if err := c.LoadFromFile(writeConfig(t, sampleYAML)); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if u, ok := c.Unit("branch-b"); !ok || u.Collection != "locations_b" {
		t.Errorf("lookup branch-b: %+v %v", u, ok)
	}
	if _, ok := c.Unit("nope"); ok {
		t.Error("unknown unit should not be found")
	}
}
