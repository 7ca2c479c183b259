package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ritual-app/ritual/internal/agent"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized storage at %s\n", ctx.Store.GetConfigPath())
	return nil
}

type AgentCmd struct {
	Listen string `help:"Address to listen on." default:"${agent_listen}"`
}

func (c *AgentCmd) Run(_ *Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return agent.Run(runCtx, c.Listen)
}

type AuthorizeCmd struct{}

func (c *AuthorizeCmd) Run(ctx *Context) error {
	done := make(chan error, 1)
	ctx.Scheduler.RequestAuthorization(func(granted bool, err error) {
		if err != nil {
			done <- err
			return
		}
		if granted {
			fmt.Println("Reminder delivery authorized.")
		} else {
			fmt.Println("Reminder delivery was not authorized.")
		}
		done <- nil
	})
	return <-done
}

type RemindCmd struct {
	List RemindListCmd `cmd:"" help:"List all reminder times." default:"1"`
}

type RemindListCmd struct{}

func (c *RemindListCmd) Run(ctx *Context) error {
	fireTimes, err := ctx.Store.ListFireTimes()
	if err != nil {
		return err
	}
	if len(fireTimes) == 0 {
		fmt.Println("No reminder times set.")
		return nil
	}

	names := map[string]string{}
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}
	for _, h := range habits {
		names[h.ID] = h.Name
	}

	for _, ft := range fireTimes {
		fmt.Printf("%s  %s\n", ft.String(), names[ft.HabitID])
	}
	return nil
}
