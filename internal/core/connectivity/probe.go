package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultProbeInterval is how often the probe monitor checks reachability.
const DefaultProbeInterval = 15 * time.Second

// probeTimeout bounds a single reachability check.
const probeTimeout = 5 * time.Second

// ProbeFunc checks reachability of the remote store. A nil return means
// online. Typically remote.Store.Ping.
type ProbeFunc func(ctx context.Context) error

// Probe is a Monitor that periodically calls a ProbeFunc and emits a
// transition whenever the result flips.
type Probe struct {
	probe    ProbeFunc
	interval time.Duration
	log      zerolog.Logger

	mu     sync.Mutex
	online bool
	ch     chan bool
}

var _ Monitor = (*Probe)(nil)

// NewProbe creates a probe monitor. It performs one synchronous check so
// Online is meaningful before Run starts; interval <= 0 uses the default.
func NewProbe(ctx context.Context, probe ProbeFunc, interval time.Duration, logger zerolog.Logger) *Probe {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	p := &Probe{
		probe:    probe,
		interval: interval,
		log:      logger,
		ch:       make(chan bool, 8),
	}
	p.online = p.check(ctx)
	return p
}

// Online returns the last probed state.
func (p *Probe) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// Transitions returns the transition feed.
func (p *Probe) Transitions() <-chan bool {
	return p.ch
}

// Run probes at the configured interval until ctx is cancelled.
func (p *Probe) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.observe(p.check(ctx))
		}
	}
}

// Kick forces an immediate probe outside the ticker schedule. Called after
// a remote call fails so the monitor notices the outage without waiting a
// full interval.
func (p *Probe) Kick(ctx context.Context) {
	p.observe(p.check(ctx))
}

func (p *Probe) check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return p.probe(ctx) == nil
}

func (p *Probe) observe(online bool) {
	p.mu.Lock()
	changed := p.online != online
	p.online = online
	p.mu.Unlock()

	if !changed {
		return
	}
	p.log.Info().Bool("online", online).Msg("connectivity changed")
	select {
	case p.ch <- online:
	default:
		p.log.Warn().Msg("transition dropped: feed buffer full")
	}
}
