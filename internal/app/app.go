package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"huddle/internal/snapshot"
	"huddle/pkg/api"
	"huddle/pkg/config"
	"huddle/pkg/directory"
	"huddle/pkg/engine"
	"huddle/pkg/logger"
	"huddle/pkg/scheduler"
	"huddle/pkg/state"
	"huddle/pkg/store"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	st    *store.Store
	dir   *directory.Directory
	sched *scheduler.Scheduler
	eng   *engine.Engine
	api   *api.API

	srv *http.Server
}

// New initializes resources that do not require a running context: the
// snapshot store, the user directory, the deferred-send scheduler and the
// message engine. Call Run to start the HTTP server and block until
// shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	logger.Init(eff.Config.Logging.Level, eff.Config.Logging.Format)

	var st *store.Store
	if eff.DBPath != "" {
		if err := state.EnsureStateDirs(eff.DBPath); err != nil {
			return nil, fmt.Errorf("state dirs under %s: %w", eff.DBPath, err)
		}
		var err error
		st, err = store.Open(state.SnapshotDir(eff.DBPath))
		if err != nil {
			return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DBPath, err)
		}
	} else {
		st = store.New()
	}

	dir := directory.New(st)
	sched := scheduler.New()
	eng := engine.New(st, dir, sched)

	a := &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		st:        st,
		dir:       dir,
		sched:     sched,
		eng:       eng,
		api:       api.New(dir, eng),
	}
	return a, nil
}

// Run starts the snapshot job and the HTTP server, and blocks until ctx is
// canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	a.printBanner()

	stopSnapshots, err := snapshot.Start(ctx, a.eff, a.st)
	if err != nil {
		return err
	}
	defer stopSnapshots()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		a.shutdown()
		return nil
	case err := <-errCh:
		a.shutdown()
		return err
	}
}

// shutdown drains the HTTP server, drops pending deferred sends and writes
// a final snapshot when a backing store is attached.
func (a *App) shutdown() {
	if a.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(ctx); err != nil {
			logger.Warn("http_shutdown_error", "error", err)
		}
	}
	a.sched.Stop()
	if a.st.Ready() {
		if err := a.st.SaveSnapshot(); err != nil {
			logger.Error("final_snapshot_failed", "error", err)
		}
	}
	if err := a.st.Close(); err != nil {
		logger.Warn("store_close_error", "error", err)
	}
	logger.Info("server_stopped")
}
