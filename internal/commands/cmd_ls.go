package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/skiff/internal/core/task"
	"github.com/colonyops/skiff/internal/skiff"
	"github.com/colonyops/skiff/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *skiff.App

	// flags
	status     string
	category   string
	priority   string
	sortKey    string
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *skiff.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List tasks",
		UsageText: "skiff ls [--status active] [--category work] [--sort due] [--json]",
		Description: `Displays the task list from the local working set. Filters compose with
AND semantics. Overdue tasks are marked with !, tasks due within 24 hours
with ~.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "filter by status (all, active, completed)",
				Value:       string(task.StatusAll),
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "category",
				Aliases:     []string{"c"},
				Usage:       "filter by category",
				Destination: &cmd.category,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "filter by priority",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "sort",
				Usage:       "sort key (order, due, priority)",
				Value:       string(task.SortByOrder),
				Destination: &cmd.sortKey,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	query := task.Query{
		Status:   task.StatusFilter(cmd.status),
		Category: cmd.category,
		Priority: task.Priority(cmd.priority),
		Sort:     task.SortKey(cmd.sortKey),
	}

	tasks := cmd.app.Syncer.List(query)

	if len(tasks) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintln(os.Stderr, "No tasks found")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, t := range tasks {
			if err := iojson.WriteLine(out, t); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tPRI\tCATEGORY\tDUE\tTITLE")
	for _, t := range tasks {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, statusString(t.Completed), t.Priority, t.Category, formatDue(t), t.Title)
	}
	_ = w.Flush()

	if !cmd.app.Syncer.Online() {
		n, err := cmd.app.Syncer.PendingCount(ctx)
		if err == nil && n > 0 {
			fmt.Fprintf(os.Stderr, "\nOffline: %d change(s) queued for sync\n", n)
		}
	}

	return nil
}
