package cli

import (
	"errors"
	"fmt"

	"github.com/ritual-app/ritual/internal/clock"
	"github.com/ritual-app/ritual/internal/tracker"
	"github.com/ritual-app/ritual/internal/utils"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit with its challenge days."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit's name, color, days, or reminder times."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and withdraw its reminders."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Done   HabitDoneCmd   `cmd:"" help:"Mark today's habit day executed."`
	Status HabitStatusCmd `cmd:"" help:"Show a habit's progress and streak."`
	Order  HabitOrderCmd  `cmd:"" help:"Show today's ordinal within the challenge."`
}

type HabitAddCmd struct {
	Name  string   `arg:"" help:"Habit name."`
	Days  []string `required:"" help:"Challenge days: YYYY-MM-DD dates or START..END ranges."`
	At    []string `help:"Daily reminder times (HH:MM), repeatable."`
	Color string   `help:"Color label for the habit." default:""`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	dates, err := ParseDateList(c.Days)
	if err != nil {
		return err
	}
	times, err := ParseTimeList(c.At)
	if err != nil {
		return err
	}

	habit, err := ctx.Service.CreateHabit(c.Name, c.Color, dates, times)
	if err != nil {
		return err
	}
	ctx.Service.Flush()

	fmt.Printf("Added habit %q with %d challenge day(s)\n", habit.Name, len(dates))
	return nil
}

type HabitEditCmd struct {
	Name   string   `arg:"" help:"Habit name."`
	Rename string   `help:"New name." default:""`
	Color  *string  `help:"New color label."`
	Days   []string `help:"Replacement challenge days (closes the current challenge)."`
	At     []string `help:"Replacement reminder times (HH:MM), repeatable."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		return err
	}

	opts := tracker.EditOptions{Color: c.Color}
	if c.Rename != "" {
		opts.Name = &c.Rename
	}
	if c.Days != nil {
		if opts.Dates, err = ParseDateList(c.Days); err != nil {
			return err
		}
	}
	if c.At != nil {
		if opts.FireTimes, err = ParseTimeList(c.At); err != nil {
			return err
		}
	}

	if err := ctx.Service.EditHabit(habit.ID, opts); err != nil {
		return err
	}
	ctx.Service.Flush()

	fmt.Printf("Updated habit %q\n", c.Name)
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Service.DeleteHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit %q\n", c.Name)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, habit := range habits {
		line := habit.Name
		if past, total, err := ctx.Service.Progress(habit.ID); err == nil {
			line += fmt.Sprintf("  %d/%d", past, total)
		}
		if streak, err := ctx.Service.StreakStatus(habit.ID); err == nil && streak != nil {
			line += fmt.Sprintf("  streak %dd", streak.Length())
		}
		fmt.Println(line)
	}
	return nil
}

type HabitDoneCmd struct {
	Name string `arg:"" help:"Habit name."`
	Undo bool   `help:"Un-mark today instead."`
}

func (c *HabitDoneCmd) Run(ctx *Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Service.MarkToday(habit.ID, !c.Undo); err != nil {
		if errors.Is(err, tracker.ErrNoActiveChallenge) {
			return fmt.Errorf("habit %q has no challenge covering today", c.Name)
		}
		return err
	}

	if c.Undo {
		fmt.Printf("Un-marked %q for today\n", c.Name)
	} else {
		fmt.Printf("Marked %q done for today\n", c.Name)
	}
	return nil
}

type HabitStatusCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitStatusCmd) Run(ctx *Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		return err
	}

	past, total, err := ctx.Service.Progress(habit.ID)
	if errors.Is(err, tracker.ErrNoActiveChallenge) {
		fmt.Printf("%s: no challenge covering today\n", habit.Name)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d/%d days\n", habit.Name, past, total)
	if streak, err := ctx.Service.StreakStatus(habit.ID); err == nil && streak != nil {
		fmt.Printf("Current streak: %d day(s) since %s\n",
			streak.Length(), utils.FormatDate(streak.FromDate))
	} else {
		fmt.Println("No current streak.")
	}
	if text, err := ctx.Service.DayOrderText(habit.ID); err == nil && text != "" {
		fmt.Println(text)
	}
	return nil
}

type HabitOrderCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Day to rank (YYYY-MM-DD, default today)." default:""`
}

func (c *HabitOrderCmd) Run(ctx *Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		return err
	}

	date := clock.Today(clock.System())
	if c.Date != "" {
		if date, err = utils.ParseDate(c.Date); err != nil {
			return err
		}
	}
	text, err := ctx.Service.DayOrderTextOn(habit.ID, date)
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Println("That day is not part of the challenge.")
		return nil
	}
	fmt.Println(text)
	return nil
}
