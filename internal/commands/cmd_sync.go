package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/skiff/internal/core/connectivity"
	"github.com/colonyops/skiff/internal/skiff"
)

type SyncCmd struct {
	flags *Flags
	app   *skiff.App
}

// NewSyncCmd creates a new sync command
func NewSyncCmd(flags *Flags, app *skiff.App) *SyncCmd {
	return &SyncCmd{flags: flags, app: app}
}

// Register adds the sync command to the application
func (cmd *SyncCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "sync",
		Usage:     "Replay queued changes now",
		UsageText: "skiff sync",
		Description: `Probes the task service and, if reachable, replays the pending queue in
order. A change whose target no longer exists remotely is dropped; any
other failure stops the pass and the rest of the queue stays put.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *SyncCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	if probe, ok := cmd.app.Monitor.(*connectivity.Probe); ok {
		probe.Kick(ctx)
	}
	if !cmd.app.Syncer.Online() {
		n, err := cmd.app.Syncer.PendingCount(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Offline: %d change(s) waiting\n", n)
		return nil
	}

	res, err := cmd.app.Syncer.Replay(ctx)
	if err != nil {
		fmt.Fprintf(out, "Sync stopped: %d applied, %d skipped, %d still queued\n",
			res.Applied, res.Skipped, res.Remaining)
		return err
	}

	fmt.Fprintf(out, "Synced: %d applied, %d skipped\n", res.Applied, res.Skipped)
	return nil
}
