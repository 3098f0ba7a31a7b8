package streaks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/streak"
)

type StreaksCmd struct {
	Habit   string `arg:"" help:"Habit name or ID."`
	Current bool   `help:"Only show the current streak." xor:"filter"`
	Longest bool   `help:"Only show the longest streak." xor:"filter"`
	JSON    bool   `help:"Print streaks as JSON." name:"json"`

	out io.Writer `kong:"-"`
}

func (c *StreaksCmd) Run(ctx *cli.Context) error {
	if c.out == nil {
		c.out = os.Stdout
	}
	bg := context.Background()
	habit, err := ctx.Service.ResolveHabit(bg, c.Habit)
	if err != nil {
		return err
	}
	all, err := ctx.Service.Streaks(bg, habit.ID)
	if err != nil {
		return err
	}

	selected := c.filter(all, ctx.Service.Today())
	if c.JSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(selected)
	}

	fmt.Fprintln(c.out, cli.HeaderStyle.Render(habit.Name))
	if len(selected) == 0 {
		fmt.Fprintln(c.out, cli.MutedStyle.Render("No streaks."))
		return nil
	}
	fmt.Fprintln(c.out, render(selected))
	return nil
}

func (c *StreaksCmd) filter(all []models.Streak, today civil.Date) []models.Streak {
	switch {
	case c.Current:
		if s, ok := streak.Current(all, today); ok {
			return []models.Streak{s}
		}
		return []models.Streak{}
	case c.Longest:
		if s, ok := streak.Longest(all); ok {
			return []models.Streak{s}
		}
		return []models.Streak{}
	default:
		return all
	}
}

func render(streaks []models.Streak) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(cli.MutedStyle).
		Headers("FIRST", "LAST", "DAYS")
	for _, s := range streaks {
		t.Row(s.First.String(), s.Last.String(), strconv.Itoa(s.Days))
	}
	return t.Render()
}
