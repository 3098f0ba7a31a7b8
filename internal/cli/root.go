package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitstreak/internal/backup"
	"github.com/julianstephens/habitstreak/internal/config"
	"github.com/julianstephens/habitstreak/internal/logger"
	"github.com/julianstephens/habitstreak/internal/migration"
	"github.com/julianstephens/habitstreak/internal/service"
	"github.com/julianstephens/habitstreak/internal/storage"
	"github.com/julianstephens/habitstreak/internal/storage/postgres"
	"github.com/julianstephens/habitstreak/internal/storage/sqlite"
	"github.com/julianstephens/habitstreak/internal/utils"
)

type Context struct {
	Store   storage.Provider
	Service *service.HabitService
	Clock   utils.Clock
	Config  *config.Config
}

// NewContext wires the service layer over store using the configured timezone.
func NewContext(store storage.Provider, cfg *config.Config) (*Context, error) {
	clock, err := utils.NewSystemClock(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	return &Context{
		Store:   store,
		Service: service.NewHabitService(store, clock),
		Clock:   clock,
		Config:  cfg,
	}, nil
}

// OpenStore picks the storage adapter for a file path or connection string.
// Embedded passwords are only accepted from secret sources (keyring, environment).
func OpenStore(target string, fromSecret bool) (storage.Provider, error) {
	if storage.IsPostgres(target) {
		if _, err := postgres.ValidateConnString(target); err != nil {
			if !fromSecret || !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, err
			}
		}
		return postgres.New(target), nil
	}
	return sqlite.NewStore(config.ExpandHome(target)), nil
}

// Migrator is implemented by stores backed by versioned SQL migrations.
type Migrator interface {
	Runner() *migration.Runner
}

// Runner returns the migration runner of the active store.
func (c *Context) Runner() (*migration.Runner, error) {
	m, ok := c.Store.(Migrator)
	if !ok {
		return nil, fmt.Errorf("storage backend does not support migrations")
	}
	return m.Runner(), nil
}

// SQLitePath returns the database file, or an error for server-backed stores.
func (c *Context) SQLitePath(action string) (string, error) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return "", fmt.Errorf("%s is only supported for SQLite storage", action)
	}
	return c.Store.GetConfigPath(), nil
}

var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	OKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	FailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Deref renders an optional string, using fallback when it is nil.
func Deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// PerformAutomaticBackup snapshots a SQLite database and only logs failures.
func (c *Context) PerformAutomaticBackup(ctx context.Context) {
	path, err := c.SQLitePath("backup")
	if err != nil {
		return
	}
	if _, err := backup.NewManager(path, c.Clock).Create(ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
