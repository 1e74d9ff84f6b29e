package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/skiff/internal/skiff"
	"github.com/colonyops/skiff/pkg/iojson"
)

type QueueCmd struct {
	flags *Flags
	app   *skiff.App

	// flags
	jsonOutput bool
}

// NewQueueCmd creates a new queue command
func NewQueueCmd(flags *Flags, app *skiff.App) *QueueCmd {
	return &QueueCmd{flags: flags, app: app}
}

// Register adds the queue command to the application
func (cmd *QueueCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "queue",
		Usage:     "Show changes waiting to sync",
		UsageText: "skiff queue [--json]",
		Flags: []cli.Flag{
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

func (cmd *QueueCmd) run(ctx context.Context, c *cli.Command) error {
	ops, err := cmd.app.Syncer.PendingOps(ctx)
	if err != nil {
		return fmt.Errorf("read queue: %w", err)
	}

	if len(ops) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintln(os.Stderr, "Queue is empty")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, op := range ops {
			if err := iojson.WriteLine(out, op); err != nil {
				return fmt.Errorf("encode operation: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SEQ\tKIND\tTARGET\tQUEUED AT")
	for _, op := range ops {
		target := op.TargetID
		if target == "" {
			target = "-"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			op.Seq, op.Kind, target, op.EnqueuedAt.Local().Format("2006-01-02 15:04:05"))
	}
	_ = w.Flush()

	return nil
}
