package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/skiff/internal/core/eventbus"
	"github.com/colonyops/skiff/internal/skiff"
)

type WatchCmd struct {
	flags *Flags
	app   *skiff.App
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags, app *skiff.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Follow sync activity until interrupted",
		UsageText: "skiff watch",
		Description: `Prints connectivity changes, queued mutations, replay passes, and remote
snapshot merges as they happen. Stop with Ctrl-C.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	cmd.app.Bus.SubscribeConnectivityChanged(func(p eventbus.ConnectivityChangedPayload) {
		state := "offline"
		if p.Online {
			state = "online"
		}
		fmt.Fprintf(out, "connectivity: %s\n", state)
	})
	cmd.app.Bus.SubscribeTaskMutated(func(p eventbus.TaskMutatedPayload) {
		suffix := ""
		if p.Queued {
			suffix = " (queued)"
		}
		fmt.Fprintf(out, "mutation: %s%s\n", p.Kind, suffix)
	})
	cmd.app.Bus.SubscribeReplayStarted(func(p eventbus.ReplayStartedPayload) {
		fmt.Fprintf(out, "replay: started, %d pending\n", p.Pending)
	})
	cmd.app.Bus.SubscribeReplayFinished(func(p eventbus.ReplayFinishedPayload) {
		if p.Completed {
			fmt.Fprintf(out, "replay: finished, %d applied, %d skipped\n", p.Applied, p.Skipped)
		} else {
			fmt.Fprintf(out, "replay: halted, %d applied, %d still queued\n", p.Applied, p.Remaining)
		}
	})
	cmd.app.Bus.SubscribeSnapshotApplied(func(p eventbus.SnapshotAppliedPayload) {
		fmt.Fprintf(out, "snapshot: %d task(s), %d pending change(s) reapplied\n", p.Tasks, p.Reapplied)
	})

	fmt.Fprintln(out, "Watching sync activity (Ctrl-C to stop)")
	<-ctx.Done()
	return nil
}
