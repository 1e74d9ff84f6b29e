package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/skiff/internal/core/task"
	"github.com/colonyops/skiff/internal/skiff"
	"github.com/colonyops/skiff/pkg/iojson"
)

type AddCmd struct {
	flags *Flags
	app   *skiff.App

	// flags
	priority   string
	category   string
	due        string
	jsonOutput bool
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *skiff.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		UsageText: `skiff add "title" [--priority high] [--due 2026-09-01]`,
		Description: `Creates a task. When the task service is reachable the task gets its
server id immediately; otherwise it is created under a local id and synced
once connectivity returns.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "priority (low, medium, high)",
				Value:       string(task.PriorityMedium),
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "category",
				Aliases:     []string{"c"},
				Usage:       "category (work, personal, shopping, health, other)",
				Destination: &cmd.category,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "due date (YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339)",
				Destination: &cmd.due,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the created task as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	title := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if title == "" {
		return fmt.Errorf("usage: skiff add \"title\"")
	}

	draft := task.Task{
		Title:    title,
		Priority: task.Priority(cmd.priority),
		Category: cmd.category,
	}

	if cmd.due != "" {
		due, err := parseDue(cmd.due)
		if err != nil {
			return err
		}
		draft.DueDate = &due
	}

	created, err := cmd.app.Syncer.AddTask(ctx, draft)
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLine(out, created)
	}

	if task.IsLocalID(created.ID) {
		fmt.Fprintf(out, "Added %s (queued for sync)\n", created.ID)
	} else {
		fmt.Fprintf(out, "Added %s\n", created.ID)
	}
	return nil
}
