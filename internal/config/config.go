package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/config"

	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/utils"
)

type Config struct {
	// Database is a SQLite file path or a PostgreSQL connection string.
	Database string        `yaml:"database"`
	Timezone string        `yaml:"timezone"`
	Logging  LoggingConfig `yaml:"logging"`
	Server   ServerConfig  `yaml:"server"`
}

type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func Defaults() Config {
	return Config{
		Database: constants.DefaultConfigPath,
		Timezone: constants.DefaultTimezone,
		Logging: LoggingConfig{
			Dir: constants.DefaultConfigDir,
		},
		Server: ServerConfig{
			Addr:            constants.DefaultServerAddr,
			ReadTimeout:     constants.DefaultReadTimeout,
			WriteTimeout:    constants.DefaultWriteTimeout,
			ShutdownTimeout: constants.DefaultShutdownTimeout,
		},
	}
}

// Path returns the config file to read: the explicit path if given, then
// HABITSTREAK_CONFIG, then the default location.
func Path(explicit string) string {
	if explicit != "" {
		return ExpandHome(explicit)
	}
	if env := os.Getenv(constants.EnvConfigFile); env != "" {
		return ExpandHome(env)
	}
	return ExpandHome(constants.DefaultConfigFile)
}

// Load layers the YAML file at path (if it exists) over the defaults and
// expands ${VAR} and ${VAR:default} references from the environment.
func Load(path string) (*Config, error) {
	opts := []config.YAMLOption{
		config.Static(Defaults()),
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			opts = append(opts, config.File(path))
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	opts = append(opts, config.Expand(os.LookupEnv))

	provider, err := config.NewYAML(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create config provider: %w", err)
	}

	var cfg Config
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("failed to populate config: %w", err)
	}

	cfg.Database = ExpandHome(strings.TrimSpace(cfg.Database))
	cfg.Logging.Dir = ExpandHome(cfg.Logging.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("config: database must not be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("config: invalid timezone %q", c.Timezone)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr must not be empty")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: server timeouts must be positive")
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
