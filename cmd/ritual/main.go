package main

import (
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ritual-app/ritual/internal/cli"
	"github.com/ritual-app/ritual/internal/clock"
	"github.com/ritual-app/ritual/internal/constants"
	"github.com/ritual-app/ritual/internal/errors"
	"github.com/ritual-app/ritual/internal/logger"
	"github.com/ritual-app/ritual/internal/notify"
	"github.com/ritual-app/ritual/internal/scheduler"
	"github.com/ritual-app/ritual/internal/storage/sqlite"
	"github.com/ritual-app/ritual/internal/tracker"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path." type:"path" default:"${config_path}"`
	Debug   bool   `help:"Enable debug logging."`

	Init      cli.InitCmd      `cmd:"" help:"Initialize ritual storage."`
	Agent     cli.AgentCmd     `cmd:"" help:"Run the reminder agent."`
	Authorize cli.AuthorizeCmd `cmd:"" help:"Request reminder delivery authorization."`
	Habit     cli.HabitCmd     `cmd:"" help:"Manage habits and their challenges."`
	Remind    cli.RemindCmd    `cmd:"" help:"Inspect reminder times."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ritual"),
		kong.Description("Habit tracker with challenges, streaks, and reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":      constants.Version,
			"config_path":  constants.DefaultConfigPath,
			"agent_listen": constants.DefaultAgentListen,
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		errors.Fatal(err)
	}

	store := sqlite.NewStore(CLI.Config)

	// The agent may be down; reminders then fail soft and are retried by
	// the next rebuild.
	var notifier notify.Notifier
	if client, err := notify.DiscoverAgent(); err == nil {
		notifier = client
	} else {
		logger.Warn("Reminder agent not reachable, reminders disabled", "error", err)
		notifier = notify.Disabled{}
	}

	sched := scheduler.New(notifier, store)
	appCtx := &cli.Context{
		Store:     store,
		Service:   tracker.New(store, clock.System(), sched),
		Scheduler: sched,
	}

	// Load the store before running the command, except for commands that
	// manage their own storage lifecycle.
	if selected := ctx.Selected(); selected != nil {
		name := selected.Name
		if name != "init" && name != "agent" {
			if err := store.Load(); err != nil {
				errors.Fatal(err)
			}
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
	sched.Flush()
}
