package checkins

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/validation"
)

type CheckInCmd struct {
	Add    CheckInAddCmd    `cmd:"" help:"Record a check-in (defaults to today)."`
	List   CheckInListCmd   `cmd:"" help:"List a habit's check-ins, newest first."`
	Delete CheckInDeleteCmd `cmd:"" help:"Delete a check-in by ID."`
}

type CheckInAddCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `help:"Day to check in (YYYY-MM-DD). Defaults to today."`
	Note  string `help:"Optional note."`
}

func (c *CheckInAddCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	habit, err := ctx.Service.ResolveHabit(bg, c.Habit)
	if err != nil {
		return err
	}
	date, err := validation.OptionalDate(c.Date)
	if err != nil {
		return err
	}

	checkIn, err := ctx.Service.CheckIn(bg, habit.ID, date, validation.OptionalText(c.Note))
	if err != nil {
		return err
	}

	fmt.Printf("✓ Checked in %s on %s\n", habit.Name, checkIn.Date)
	streaks, err := ctx.Service.Summary(bg, habit.ID)
	if err == nil && streaks.CurrentStreak > 0 {
		fmt.Printf("  Current streak: %d day(s)\n", streaks.CurrentStreak)
	}
	return nil
}

type CheckInListCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *CheckInListCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	habit, err := ctx.Service.ResolveHabit(bg, c.Habit)
	if err != nil {
		return err
	}
	checkIns, err := ctx.Service.ListCheckIns(bg, habit.ID)
	if err != nil {
		return err
	}

	if len(checkIns) == 0 {
		fmt.Printf("No check-ins for %s.\n", habit.Name)
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render(habit.Name))
	for _, ci := range checkIns {
		line := fmt.Sprintf("  %s  %s", ci.Date, cli.MutedStyle.Render(ci.ID))
		if ci.Note != nil {
			line += "  " + *ci.Note
		}
		fmt.Println(line)
	}
	return nil
}

type CheckInDeleteCmd struct {
	ID    string `arg:"" help:"Check-in ID."`
	Habit string `help:"Only delete if the check-in belongs to this habit (name or ID)."`
}

func (c *CheckInDeleteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	habitID := ""
	if c.Habit != "" {
		habit, err := ctx.Service.ResolveHabit(bg, c.Habit)
		if err != nil {
			return err
		}
		habitID = habit.ID
	}

	deleted, err := ctx.Service.DeleteCheckIn(bg, habitID, c.ID)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Printf("No check-in found with ID %s\n", c.ID)
		return nil
	}
	fmt.Printf("Deleted check-in %s\n", c.ID)
	return nil
}
