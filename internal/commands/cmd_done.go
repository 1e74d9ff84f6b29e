package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/skiff/internal/core/task"
	"github.com/colonyops/skiff/internal/skiff"
)

type DoneCmd struct {
	flags *Flags
	app   *skiff.App

	// flags
	undo bool
}

// NewDoneCmd creates a new done command
func NewDoneCmd(flags *Flags, app *skiff.App) *DoneCmd {
	return &DoneCmd{flags: flags, app: app}
}

// Register adds the done command to the application
func (cmd *DoneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "done",
		Usage:     "Mark a task completed",
		UsageText: "skiff done <id> [--undo]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "undo",
				Usage:       "reopen the task instead",
				Destination: &cmd.undo,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DoneCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: skiff done <id>")
	}

	completed := !cmd.undo
	updated, err := cmd.app.Syncer.UpdateTask(ctx, id, task.Patch{Completed: &completed})
	if err != nil {
		return fmt.Errorf("mark task: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "%s: %s\n", statusString(updated.Completed), updated.Title)
	return nil
}
