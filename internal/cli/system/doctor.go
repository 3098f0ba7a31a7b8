package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitstreak/internal/backup"
	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/keyring"
	"github.com/julianstephens/habitstreak/internal/utils"
	"github.com/julianstephens/habitstreak/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(context.Context, *cli.Context) error
	warning bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", run: checkSchemaVersion},
		{name: "Migrations complete", run: checkMigrationsComplete},
		{name: "Data validation", run: checkValidation},
		{name: "Streak consistency", run: checkStreaks},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "Backups present", run: checkBackupsPresent, warning: true},
		{name: "OS keyring", run: checkKeyring, warning: true},
	}

	bg := context.Background()
	hasError := false
	dbReachable := true
	for _, c := range checks {
		if !dbReachable && c.name != "Clock/timezone" && c.name != "OS keyring" {
			fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("⊘ %s: SKIPPED (database not reachable)", c.name)))
			continue
		}
		err := c.run(bg, ctx)
		switch {
		case err == nil:
			fmt.Println(cli.OKStyle.Render(fmt.Sprintf("✓ %s: OK", c.name)))
		case c.warning:
			fmt.Println(cli.WarnStyle.Render(fmt.Sprintf("⚠ %s: WARNING", c.name)))
			fmt.Printf("   %v\n", err)
		default:
			fmt.Println(cli.FailStyle.Render(fmt.Sprintf("❌ %s: FAIL", c.name)))
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(bg context.Context, ctx *cli.Context) error {
	pingCtx, cancel := context.WithTimeout(bg, 5*time.Second)
	defer cancel()
	return ctx.Store.Ping(pingCtx)
}

func checkSchemaVersion(_ context.Context, ctx *cli.Context) error {
	runner, err := ctx.Runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func checkMigrationsComplete(_ context.Context, ctx *cli.Context) error {
	runner, err := ctx.Runner()
	if err != nil {
		return err
	}
	pending, err := runner.Pending()
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending, run 'habitstreak migrate'", pending)
	}
	return nil
}

func checkValidation(bg context.Context, ctx *cli.Context) error {
	result, err := validate(bg, ctx)
	if err != nil {
		return err
	}
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found, run 'habitstreak validate' for details", len(result.Conflicts))
	}
	return nil
}

func validate(bg context.Context, ctx *cli.Context) (validation.ValidationResult, error) {
	habits, err := ctx.Store.GetAllHabits(bg)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get habits: %w", err)
	}
	checkIns, err := ctx.Store.GetAllCheckIns(bg)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get check-ins: %w", err)
	}
	return validation.New().ValidateData(habits, checkIns, ctx.Service.Today()), nil
}

func checkStreaks(bg context.Context, ctx *cli.Context) error {
	habits, err := ctx.Service.ListHabits(bg)
	if err != nil {
		return err
	}
	for _, h := range habits {
		if err := ctx.Service.VerifyStreaks(bg, h.ID); err != nil {
			return err
		}
	}
	return nil
}

func checkClockTimezone(_ context.Context, ctx *cli.Context) error {
	now := ctx.Clock.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", utils.FormatTimestamp(now))
	}
	if ctx.Config != nil && !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone %q", ctx.Config.Timezone)
	}
	return nil
}

func checkBackupsPresent(_ context.Context, ctx *cli.Context) error {
	path, err := ctx.SQLitePath("backup")
	if err != nil {
		return nil
	}
	mgr := backup.NewManager(path, ctx.Clock)
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, consider creating one with 'habitstreak backup create'")
	}
	return nil
}

func checkKeyring(_ context.Context, _ *cli.Context) error {
	if !keyring.Available() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	result, err := validate(context.Background(), ctx)
	if err != nil {
		return err
	}
	fmt.Println(result.FormatReport())
	if result.HasConflicts() {
		return fmt.Errorf("validation found %d conflict(s)", len(result.Conflicts))
	}
	return nil
}
