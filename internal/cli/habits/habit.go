package habits

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/validation"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit and its streak summary."`
	Rename HabitRenameCmd `cmd:"" help:"Rename a habit or change its description."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and all of its check-ins."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name. Prompts interactively when omitted."`
	Description string `help:"Optional description." short:"d"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		if err := c.prompt(); err != nil {
			return err
		}
	}

	habit, err := ctx.Service.CreateHabit(context.Background(), c.Name, validation.OptionalText(c.Description))
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s)\n", habit.Name, habit.ID)
	return nil
}

func (c *HabitAddCmd) prompt() error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Value(&c.Name).
				CharLimit(constants.MaxHabitNameLength).
				Validate(func(s string) error {
					_, err := validation.HabitName(s)
					return err
				}),
			huh.NewText().
				Title("Description (optional)").
				Value(&c.Description),
		),
	)
	return form.Run()
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	habits, err := ctx.Service.ListHabits(bg)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render("Habits"))
	for _, habit := range habits {
		sum, err := ctx.Service.Summary(bg, habit.ID)
		if err != nil {
			return err
		}
		mark := "○"
		if sum.CheckedInToday {
			mark = cli.OKStyle.Render("✓")
		}
		fmt.Printf("  %s %s  %s\n", mark, habit.Name,
			cli.MutedStyle.Render(fmt.Sprintf("current %d, longest %d", sum.CurrentStreak, sum.LongestStreak)))
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	habit, err := ctx.Service.ResolveHabit(bg, c.Habit)
	if err != nil {
		return err
	}
	sum, err := ctx.Service.Summary(bg, habit.ID)
	if err != nil {
		return err
	}
	printHabit(habit, sum)
	return nil
}

func printHabit(habit models.Habit, sum models.Summary) {
	fmt.Println(cli.HeaderStyle.Render(habit.Name))
	fmt.Printf("  ID:          %s\n", habit.ID)
	fmt.Printf("  Description: %s\n", cli.Deref(habit.Description, "-"))
	fmt.Printf("  Created:     %s\n", habit.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Printf("  Check-ins:   %d\n", sum.TotalCheckIns)
	fmt.Printf("  Current:     %d day(s)\n", sum.CurrentStreak)
	fmt.Printf("  Longest:     %d day(s)\n", sum.LongestStreak)
	if sum.DaysSinceLastCheckIn != nil {
		fmt.Printf("  Last:        %d day(s) ago\n", *sum.DaysSinceLastCheckIn)
	}
}

type HabitRenameCmd struct {
	Habit       string  `arg:"" help:"Habit name or ID."`
	Name        string  `arg:"" optional:"" help:"New name."`
	Description *string `help:"New description (empty clears it)."`
}

func (c *HabitRenameCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	habit, err := ctx.Service.ResolveHabit(bg, c.Habit)
	if err != nil {
		return err
	}

	var update models.HabitUpdate
	if c.Name != "" {
		update.Name = &c.Name
	}
	update.Description = c.Description
	if update.Name == nil && update.Description == nil {
		return fmt.Errorf("nothing to update: pass a new name or --description")
	}

	updated, err := ctx.Service.UpdateHabit(bg, habit.ID, update)
	if err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s\n", updated.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	habit, err := ctx.Service.ResolveHabit(bg, c.Habit)
	if err != nil {
		return err
	}
	if _, err := ctx.Service.DeleteHabit(bg, habit.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}
