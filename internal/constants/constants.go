package constants

import "time"

const (
	AppName            = "habitstreak"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitstreak"
	DefaultConfigPath  = "~/.config/habitstreak/habitstreak.db"
	DefaultConfigFile  = "~/.config/habitstreak/config.yaml"
	Version            = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DefaultTimezone is the zone used to decide what "today" is for check-ins
	DefaultTimezone = "UTC"

	// Environment variables
	EnvDBConnection = "HABITSTREAK_DB_CONNECTION"
	EnvConfigFile   = "HABITSTREAK_CONFIG"

	// Habit field limits
	MaxHabitNameLength = 100

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitstreak-"
	BackupFileSuffix = ".db"

	// HTTP server defaults
	DefaultServerAddr      = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second

	// Postgres connection pool
	PostgresMaxOpenConns    = 25
	PostgresMaxIdleConns    = 25
	PostgresConnMaxLifetime = 5 * time.Minute

	// SQLite busy timeout in milliseconds
	SQLiteBusyTimeoutMs = 5000
)

// SessionState is the screen the TUI is showing
type SessionState int

const (
	StateHabits SessionState = iota
	StateStreaks
	StateAddHabit
	StateConfirmDelete
)
