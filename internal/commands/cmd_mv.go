package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/skiff/internal/core/task"
	"github.com/colonyops/skiff/internal/skiff"
)

type MvCmd struct {
	flags *Flags
	app   *skiff.App
}

// NewMvCmd creates a new mv command
func NewMvCmd(flags *Flags, app *skiff.App) *MvCmd {
	return &MvCmd{flags: flags, app: app}
}

// Register adds the mv command to the application
func (cmd *MvCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "mv",
		Usage:     "Move a task to a new position in the manual order",
		UsageText: "skiff mv <id> <position>",
		Description: `Positions are 1-based over the full list in manual order. The other tasks
shift to make room.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *MvCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("usage: skiff mv <id> <position>")
	}
	id := c.Args().Get(0)

	pos, err := strconv.Atoi(c.Args().Get(1))
	if err != nil || pos < 1 {
		return fmt.Errorf("position must be a positive number, got %q", c.Args().Get(1))
	}

	current := cmd.app.Syncer.List(task.Query{Sort: task.SortByOrder})

	ids := make([]string, 0, len(current))
	found := false
	for _, t := range current {
		if t.ID == id {
			found = true
			continue
		}
		ids = append(ids, t.ID)
	}
	if !found {
		return fmt.Errorf("move %s: %w", id, task.ErrNotFound)
	}

	if pos > len(ids)+1 {
		pos = len(ids) + 1
	}
	idx := pos - 1
	ids = append(ids[:idx], append([]string{id}, ids[idx:]...)...)

	if err := cmd.app.Syncer.ReorderTasks(ctx, ids); err != nil {
		return fmt.Errorf("move task: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Moved %s to position %d\n", id, pos)
	return nil
}
