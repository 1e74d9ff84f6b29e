// Package skiff holds the assembled application: the sync coordinator and
// its collaborators, wired once in main and shared by every command.
package skiff

import (
	"github.com/colonyops/skiff/internal/core/config"
	"github.com/colonyops/skiff/internal/core/connectivity"
	"github.com/colonyops/skiff/internal/core/eventbus"
	"github.com/colonyops/skiff/internal/core/session"
	"github.com/colonyops/skiff/internal/core/syncer"
)

// App aggregates the running services commands operate on.
type App struct {
	Config  *config.Config
	Session session.Session
	Syncer  *syncer.Coordinator
	Monitor connectivity.Monitor
	Bus     *eventbus.EventBus
}

// NewApp creates a new App instance with all services.
func NewApp(
	cfg *config.Config,
	sess session.Session,
	coord *syncer.Coordinator,
	monitor connectivity.Monitor,
	bus *eventbus.EventBus,
) *App {
	return &App{
		Config:  cfg,
		Session: sess,
		Syncer:  coord,
		Monitor: monitor,
		Bus:     bus,
	}
}
