package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/skiff/internal/core/task"
	"github.com/colonyops/skiff/internal/skiff"
	"github.com/colonyops/skiff/pkg/iojson"
)

type StatsCmd struct {
	flags *Flags
	app   *skiff.App

	// flags
	jsonOutput bool
}

// NewStatsCmd creates a new stats command
func NewStatsCmd(flags *Flags, app *skiff.App) *StatsCmd {
	return &StatsCmd{flags: flags, app: app}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stats",
		Usage:     "Show task statistics",
		UsageText: "skiff stats [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	stats := cmd.app.Syncer.Stats()
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteLine(out, stats)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total\t%d\n", stats.Total)
	_, _ = fmt.Fprintf(w, "Active\t%d\n", stats.Active)
	_, _ = fmt.Fprintf(w, "Completed\t%d\n", stats.Completed)
	_, _ = fmt.Fprintf(w, "Overdue\t%d\n", stats.Overdue)
	_, _ = fmt.Fprintf(w, "Due soon\t%d\n", stats.DueSoon)

	for _, p := range []task.Priority{task.PriorityHigh, task.PriorityMedium, task.PriorityLow} {
		if n := stats.ByPriority[p]; n > 0 {
			_, _ = fmt.Fprintf(w, "%s priority\t%d\n", p, n)
		}
	}
	for _, cat := range task.Categories {
		if n := stats.ByCategory[cat]; n > 0 {
			_, _ = fmt.Fprintf(w, "%s\t%d\n", cat, n)
		}
	}
	_ = w.Flush()

	return nil
}
