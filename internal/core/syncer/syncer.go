// Package syncer contains the coordinator that keeps the local working set,
// the durable pending queue, and the remote store converged.
//
// Every mutation applies to the working set immediately. When the remote
// store is reachable the mutation is confirmed in the same call; when it is
// not, the operation is queued and replayed in order once connectivity
// returns.
package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/skiff/internal/core/connectivity"
	"github.com/colonyops/skiff/internal/core/eventbus"
	"github.com/colonyops/skiff/internal/core/pending"
	"github.com/colonyops/skiff/internal/core/remote"
	"github.com/colonyops/skiff/internal/core/session"
	"github.com/colonyops/skiff/internal/core/task"
	"github.com/colonyops/skiff/pkg/randid"
)

const localIDLen = 12

// Config wires the coordinator's collaborators.
type Config struct {
	Session session.Session
	Remote  remote.Store
	Cache   task.Cache
	Queue   pending.Queue
	Monitor connectivity.Monitor
	Bus     *eventbus.EventBus
	Logger  zerolog.Logger

	// ReplayOnStart replays the pending queue during Start when the monitor
	// reports online. Transitions to online always trigger a replay.
	ReplayOnStart bool
}

// Coordinator owns the in-memory working set for one user and mediates all
// task mutations.
type Coordinator struct {
	sess          session.Session
	remote        remote.Store
	cache         task.Cache
	queue         pending.Queue
	monitor       connectivity.Monitor
	bus           *eventbus.EventBus
	logger        zerolog.Logger
	replayOnStart bool

	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	tasks []task.Task

	// replayMu makes replay single-flight. A pass that finds it held
	// returns immediately; the running pass already covers the queue.
	replayMu sync.Mutex

	subMu sync.Mutex
	sub   remote.Subscription

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// New builds a coordinator. The session must name a user.
func New(cfg Config) (*Coordinator, error) {
	if !cfg.Session.Valid() {
		return nil, session.ErrNoUser
	}
	if cfg.Remote == nil || cfg.Cache == nil || cfg.Queue == nil || cfg.Monitor == nil || cfg.Bus == nil {
		return nil, fmt.Errorf("syncer: missing collaborator")
	}

	return &Coordinator{
		sess:          cfg.Session,
		remote:        cfg.Remote,
		cache:         cfg.Cache,
		queue:         cfg.Queue,
		monitor:       cfg.Monitor,
		bus:           cfg.Bus,
		logger:        cfg.Logger,
		replayOnStart: cfg.ReplayOnStart,
		now:           time.Now,
		newID:         func() string { return task.LocalIDPrefix + randid.Generate(localIDLen) },
	}, nil
}

// Start loads the cached snapshot and begins reacting to connectivity.
// When online it replays the pending queue, refreshes from the remote
// store, and opens the live snapshot feed.
func (c *Coordinator) Start(ctx context.Context) error {
	if c.started {
		return fmt.Errorf("syncer: already started")
	}
	c.started = true

	cached, err := c.cache.Read(ctx, c.sess.UserID)
	if err != nil {
		return fmt.Errorf("syncer: load cache: %w", err)
	}
	c.mu.Lock()
	c.tasks = cached
	c.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel

	if c.monitor.Online() {
		if c.replayOnStart {
			if _, err := c.Replay(runCtx); err != nil {
				c.logger.Warn().Err(err).Msg("startup replay halted")
			}
		}
		c.ensureWatch(runCtx)
	}

	c.wg.Add(1)
	go c.run(runCtx)

	return nil
}

// Close stops background work and waits for it to finish. The working set
// stays cached; pending operations stay queued for the next session.
func (c *Coordinator) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.closeWatch()
	c.wg.Wait()
	return nil
}

// Online reports the monitor's last known state.
func (c *Coordinator) Online() bool {
	return c.monitor.Online()
}

// run reacts to connectivity transitions until the context is cancelled.
func (c *Coordinator) run(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case online, ok := <-c.monitor.Transitions():
			if !ok {
				return
			}

			c.bus.PublishConnectivityChanged(eventbus.ConnectivityChangedPayload{Online: online})

			if !online {
				c.logger.Info().Msg("connectivity lost, mutations will queue")
				c.closeWatch()
				continue
			}

			c.logger.Info().Msg("connectivity restored, replaying pending queue")
			if _, err := c.Replay(ctx); err != nil {
				c.logger.Warn().Err(err).Msg("replay halted, tail stays queued")
			}
			c.ensureWatch(ctx)
		}
	}
}

// ensureWatch opens the live snapshot feed if it is not already running.
func (c *Coordinator) ensureWatch(ctx context.Context) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if c.sub != nil {
		return
	}

	sub, err := c.remote.Watch(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("snapshot feed unavailable")
		return
	}
	c.sub = sub

	c.wg.Add(1)
	go c.watchLoop(ctx, sub)
}

func (c *Coordinator) closeWatch() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if c.sub != nil {
		_ = c.sub.Close()
		c.sub = nil
	}
}

// watchLoop folds each remote snapshot into the working set until the feed
// ends.
func (c *Coordinator) watchLoop(ctx context.Context, sub remote.Subscription) {
	defer c.wg.Done()

	for snap := range sub.Snapshots() {
		c.reconcile(ctx, snap)
	}

	if err := sub.Err(); err != nil && ctx.Err() == nil {
		c.logger.Warn().Err(err).Msg("snapshot feed closed")
	}

	c.subMu.Lock()
	if c.sub == sub {
		c.sub = nil
	}
	c.subMu.Unlock()
}
