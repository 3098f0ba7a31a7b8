package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing SQLite database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized habitstreak storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		source, err := cli.OpenStore(c.Source, false)
		if err != nil {
			return fmt.Errorf("invalid source: %w", err)
		}
		if err := source.Load(); err != nil {
			return fmt.Errorf("failed to load source database: %w", err)
		}
		defer source.Close()

		habits, checkIns, err := CopyData(context.Background(), source, ctx.Store)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("  Migrated %d habits\n", habits)
		fmt.Printf("  Migrated %d check-ins\n", checkIns)
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath, err := ctx.SQLitePath("--force")
	if err != nil {
		return err
	}
	if c.Source != "" {
		absDB, _ := filepath.Abs(dbPath)
		absSource, _ := filepath.Abs(c.Source)
		if absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
	}
	fmt.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

// CopyData copies every habit and check-in from src into dst, habits first
// so check-in foreign keys resolve. Ids and timestamps are preserved.
func CopyData(ctx context.Context, src, dst storage.Provider) (habits, checkIns int, err error) {
	allHabits, err := src.GetAllHabits(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, h := range allHabits {
		if err := dst.AddHabit(ctx, h); err != nil {
			return habits, 0, fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
		habits++
	}

	allCheckIns, err := src.GetAllCheckIns(ctx)
	if err != nil {
		return habits, 0, fmt.Errorf("failed to get check-ins from source: %w", err)
	}
	for _, ci := range allCheckIns {
		if err := dst.InsertCheckIn(ctx, ci); err != nil {
			return habits, checkIns, fmt.Errorf("failed to add check-in %s: %w", ci.ID, err)
		}
		checkIns++
	}
	return habits, checkIns, nil
}
