package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/skiff/internal/commands"
	"github.com/colonyops/skiff/internal/core/config"
	"github.com/colonyops/skiff/internal/core/connectivity"
	"github.com/colonyops/skiff/internal/core/eventbus"
	"github.com/colonyops/skiff/internal/core/session"
	"github.com/colonyops/skiff/internal/core/syncer"
	"github.com/colonyops/skiff/internal/data/db"
	"github.com/colonyops/skiff/internal/data/stores"
	"github.com/colonyops/skiff/internal/remote/httpstore"
	"github.com/colonyops/skiff/internal/skiff"
	"github.com/colonyops/skiff/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		skiffApp  = &skiff.App{}
		database  *db.DB
		coord     *syncer.Coordinator
		bgCancel  context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "skiff",
		Usage:     "Offline-aware task list",
		UsageText: "skiff [global options] command [command options]",
		Description: `Skiff keeps your task list usable without a network connection.

Every change applies locally first. When the task service is reachable the
change is confirmed immediately; when it is not, the change is queued on
disk and replayed in order once connectivity returns.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("SKIFF_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/skiff.log)",
				Sources:     cli.EnvVars("SKIFF_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SKIFF_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("SKIFF_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "user",
				Usage:       "user id (overrides the config file)",
				Sources:     cli.EnvVars("SKIFF_USER"),
				Destination: &flags.User,
			},
			&cli.BoolFlag{
				Name:        "offline",
				Usage:       "act as if the task service is unreachable",
				Destination: &flags.Offline,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/skiff.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "skiff.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			if err := os.MkdirAll(flags.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			dbOpts := db.Options{
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				BusyTimeout:  cfg.Database.BusyTimeout,
			}
			database, err = db.Open(cfg.DataDir, dbOpts)
			if err != nil && stores.IsCorruptionError(err) {
				log.Warn().Err(err).Msg("database corrupt, moving it aside and starting fresh")
				if rerr := stores.RecoverFromCorruption(cfg.DataDir); rerr != nil {
					return ctx, fmt.Errorf("recover database: %w", rerr)
				}
				database, err = db.Open(cfg.DataDir, dbOpts)
			}
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			kvStore := stores.NewKVStore(database)
			cache := stores.NewCacheStore(kvStore, log.With().Str("component", "cache").Logger())
			queue := stores.NewQueueStore(database)

			userID := flags.User
			if userID == "" {
				userID = cfg.User
			}
			if userID == "" {
				userID = "local"
			}
			sess, err := session.New(userID, cfg.Remote.Token)
			if err != nil {
				return ctx, err
			}

			store, err := httpstore.New(httpstore.Config{
				BaseURL: cfg.Remote.URL,
				Token:   cfg.Remote.Token,
				UserID:  sess.UserID,
				Timeout: cfg.Remote.Timeout,
				Logger:  log.With().Str("component", "remote").Logger(),
			})
			if err != nil {
				return ctx, fmt.Errorf("remote client: %w", err)
			}

			bgCtx, cancel := context.WithCancel(context.Background())
			bgCancel = cancel

			var monitor connectivity.Monitor
			if flags.Offline {
				monitor = connectivity.NewManual(false)
			} else {
				probe := connectivity.NewProbe(bgCtx, store.Ping, cfg.Sync.ProbeInterval,
					log.With().Str("component", "connectivity").Logger())
				go probe.Run(bgCtx)
				monitor = probe
			}

			bus := eventbus.New(0)
			eventbus.RegisterDebugLogger(bus, log.Logger)
			go bus.Run(bgCtx)

			coord, err = syncer.New(syncer.Config{
				Session:       sess,
				Remote:        store,
				Cache:         cache,
				Queue:         queue,
				Monitor:       monitor,
				Bus:           bus,
				Logger:        log.With().Str("component", "syncer").Logger(),
				ReplayOnStart: cfg.Sync.ReplayOnStart,
			})
			if err != nil {
				return ctx, fmt.Errorf("create coordinator: %w", err)
			}
			if err := coord.Start(ctx); err != nil {
				return ctx, fmt.Errorf("start coordinator: %w", err)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*skiffApp = *skiff.NewApp(&cfg, sess, coord, monitor, bus)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if coord != nil {
				if err := coord.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close coordinator")
				}
			}

			if bgCancel != nil {
				bgCancel()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewAddCmd(flags, skiffApp).Register(app)
	app = commands.NewLsCmd(flags, skiffApp).Register(app)
	app = commands.NewDoneCmd(flags, skiffApp).Register(app)
	app = commands.NewEditCmd(flags, skiffApp).Register(app)
	app = commands.NewRmCmd(flags, skiffApp).Register(app)
	app = commands.NewMvCmd(flags, skiffApp).Register(app)
	app = commands.NewSyncCmd(flags, skiffApp).Register(app)
	app = commands.NewQueueCmd(flags, skiffApp).Register(app)
	app = commands.NewStatsCmd(flags, skiffApp).Register(app)
	app = commands.NewWatchCmd(flags, skiffApp).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
