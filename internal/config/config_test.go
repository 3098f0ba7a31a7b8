package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitstreak/internal/constants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timezone != constants.DefaultTimezone {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, constants.DefaultTimezone)
	}
	if cfg.Server.Addr != constants.DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, constants.DefaultServerAddr)
	}
	if cfg.Server.ReadTimeout != constants.DefaultReadTimeout {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, constants.DefaultReadTimeout)
	}
	if strings.HasPrefix(cfg.Database, "~") {
		t.Errorf("Database path not expanded: %q", cfg.Database)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
database: /tmp/habits.db
timezone: America/New_York
logging:
  debug: true
server:
  addr: 127.0.0.1:9000
  read_timeout: 30s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database != "/tmp/habits.db" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.Timezone != "America/New_York" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if !cfg.Logging.Debug {
		t.Error("Logging.Debug = false, want true")
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout != constants.DefaultWriteTimeout {
		t.Errorf("unset WriteTimeout = %v, want default", cfg.Server.WriteTimeout)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("HABITSTREAK_TEST_TZ", "Europe/Berlin")
	path := writeConfig(t, `
timezone: ${HABITSTREAK_TEST_TZ}
server:
  addr: ${HABITSTREAK_TEST_ADDR_UNSET::7070}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q, want Europe/Berlin", cfg.Timezone)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q, want :7070", cfg.Server.Addr)
	}
}

func TestLoadRejectsInvalidTimezone(t *testing.T) {
	path := writeConfig(t, "timezone: Mars/Olympus_Mons\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() with invalid timezone should fail")
	}
}

func TestPath(t *testing.T) {
	t.Setenv(constants.EnvConfigFile, "/etc/habitstreak.yaml")
	if got := Path("/explicit.yaml"); got != "/explicit.yaml" {
		t.Errorf("Path(explicit) = %q", got)
	}
	if got := Path(""); got != "/etc/habitstreak.yaml" {
		t.Errorf("Path(env) = %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/x/y.db", filepath.Join(home, "x", "y.db")},
		{"/abs/path", "/abs/path"},
		{"postgres://u@h/db", "postgres://u@h/db"},
		{"~user/file", "~user/file"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
