package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/skiff/internal/core/task"
	"github.com/colonyops/skiff/internal/skiff"
	"github.com/colonyops/skiff/pkg/iojson"
)

type EditCmd struct {
	flags *Flags
	app   *skiff.App

	// flags
	title      string
	priority   string
	category   string
	due        string
	clearDue   bool
	jsonOutput bool
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags, app *skiff.App) *EditCmd {
	return &EditCmd{flags: flags, app: app}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Edit a task",
		UsageText: `skiff edit <id> [--title "new title"] [--due 2026-09-01] [--clear-due]`,
		Description: `Applies a partial update. Only the fields given as flags change; --clear-due
removes the due date and wins over --due when both are set.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "new title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "new priority (low, medium, high)",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "category",
				Aliases:     []string{"c"},
				Usage:       "new category",
				Destination: &cmd.category,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "new due date",
				Destination: &cmd.due,
			},
			&cli.BoolFlag{
				Name:        "clear-due",
				Usage:       "remove the due date",
				Destination: &cmd.clearDue,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the updated task as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: skiff edit <id> [flags]")
	}

	var patch task.Patch
	if cmd.title != "" {
		patch.Title = &cmd.title
	}
	if cmd.priority != "" {
		p := task.Priority(cmd.priority)
		patch.Priority = &p
	}
	if cmd.category != "" {
		patch.Category = &cmd.category
	}
	if cmd.clearDue {
		patch.ClearDueDate = true
	} else if cmd.due != "" {
		due, err := parseDue(cmd.due)
		if err != nil {
			return err
		}
		patch.DueDate = &due
	}

	updated, err := cmd.app.Syncer.UpdateTask(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("edit task: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLine(out, updated)
	}
	fmt.Fprintf(out, "Updated %s\n", updated.ID)
	return nil
}
