package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/skiff/internal/skiff"
)

type RmCmd struct {
	flags *Flags
	app   *skiff.App

	// flags
	completed bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *skiff.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Remove tasks",
		UsageText: "skiff rm <id>... | skiff rm --completed",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "completed",
				Usage:       "remove all completed tasks",
				Destination: &cmd.completed,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.completed {
		n, err := cmd.app.Syncer.ClearCompleted(ctx)
		if err != nil {
			return fmt.Errorf("clear completed: %w", err)
		}
		fmt.Fprintf(c.Root().Writer, "Removed %d completed task(s)\n", n)
		return nil
	}

	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("usage: skiff rm <id>... or skiff rm --completed")
	}

	for _, id := range ids {
		if err := cmd.app.Syncer.DeleteTask(ctx, id); err != nil {
			return fmt.Errorf("remove %s: %w", id, err)
		}
		fmt.Fprintf(c.Root().Writer, "Removed %s\n", id)
	}
	return nil
}
