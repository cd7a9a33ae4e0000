// Package shell wires configuration, the backend supervisor and the
// command surface into a runnable application, with or without the
// terminal UI.
package shell

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/carsonvertex/tauri-pos-app/pkg/backend"
	"github.com/carsonvertex/tauri-pos-app/pkg/commands"
	"github.com/carsonvertex/tauri-pos-app/pkg/config"
	"github.com/carsonvertex/tauri-pos-app/pkg/events"
	"github.com/carsonvertex/tauri-pos-app/pkg/health"
	"github.com/carsonvertex/tauri-pos-app/pkg/logs"
	"github.com/carsonvertex/tauri-pos-app/pkg/metrics"
	"github.com/carsonvertex/tauri-pos-app/pkg/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// App is one running POS shell.
type App struct {
	cfg    *config.Config
	logger zerolog.Logger

	Supervisor *backend.Supervisor
	Commands   *commands.Dispatcher
	Health     *health.Checker
	Metrics    *metrics.Metrics
}

// New builds the application from cfg. base is the root logger; component
// levels from cfg are applied on top of it.
func New(cfg *config.Config, base zerolog.Logger, opts ...backend.Option) *App {
	base = logs.WithLevel(base, cfg.Logging.Level.Global)
	shellLogger := logs.WithLevel(base, cfg.Logging.Level.Shell)
	backendLogger := logs.Component(base, "backend", cfg.Logging.Level.Backend)

	m := metrics.New()

	command := backend.Command{
		Path: cfg.Backend.Command,
		Args: cfg.Backend.Args,
		Dir:  cfg.Backend.WorkingDir,
		Env:  cfg.Backend.Env,
	}
	opts = append([]backend.Option{
		backend.WithPort(uint16(cfg.Backend.Port)),
		backend.WithOutputLogger(backendLogger),
	}, opts...)
	sup := backend.NewSupervisor(command, shellLogger, opts...)

	app := &App{
		cfg:        cfg,
		logger:     shellLogger.With().Str("component", "shell").Logger(),
		Supervisor: sup,
		Commands:   commands.New(sup, shellLogger, commands.WithObserver(m)),
		Metrics:    m,
	}

	if cfg.Health.Enabled {
		url := health.URL(uint16(cfg.Backend.Port), cfg.Backend.HealthPath)
		app.Health = health.NewChecker(url, cfg.Health.Timeout).WithObserver(m)
	}

	return app
}

// Preflight warns about a missing backend jar. Start would still be
// attempted later; the spawn error is what the front end sees.
func (a *App) Preflight(fs afero.Fs) bool {
	path, ok := config.ArtifactExists(fs, a.cfg)
	if !ok {
		a.logger.Warn().Str("jar", path).Msg("Backend jar not found, build the backend before starting it")
	}
	return ok
}

// UIOptions returns the terminal UI wiring for this app.
func (a *App) UIOptions() ui.Options {
	opts := ui.Options{
		Commands:        a.Commands,
		Ports:           a.Supervisor,
		RefreshInterval: a.cfg.Health.Interval,
		AutoStart:       a.cfg.Startup.AutoStart,
		MaxLogLines:     a.cfg.UI.MaxLogLines,
	}
	if a.Health != nil {
		opts.Health = a.Health
	}
	return opts
}

// RunUI runs the terminal UI until the user quits or ctx is cancelled.
// Lines written to lw before the program exists are replayed into it.
func (a *App) RunUI(ctx context.Context, lw *logs.LogWriter, programOpts ...tea.ProgramOption) error {
	programOpts = append([]tea.ProgramOption{tea.WithContext(ctx)}, programOpts...)
	p := tea.NewProgram(ui.NewModel(a.UIOptions()), programOpts...)
	if lw != nil {
		// Send blocks until the program's event loop runs.
		go lw.Attach(p)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.ServeMetrics(gctx)
	})
	g.Go(func() error {
		defer cancel()
		events.NotifyBackendStarting(p, a.cfg.Startup.NotifyDelay)
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	err := g.Wait()
	a.Shutdown()
	return err
}

// RunHeadless runs without a UI until ctx is cancelled. The startup event
// is logged and, with auto start enabled, starts the backend.
func (a *App) RunHeadless(ctx context.Context) error {
	starting := make(chan struct{}, 1)
	sender := events.SenderFunc(func(msg tea.Msg) {
		if _, ok := msg.(events.BackendStartingMsg); ok {
			select {
			case starting <- struct{}{}:
			default:
			}
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.ServeMetrics(gctx)
	})
	g.Go(func() error {
		events.NotifyBackendStarting(sender, a.cfg.Startup.NotifyDelay)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-starting:
				a.logger.Info().Str("event", events.BackendStarting).Msg("Startup event emitted")
				if !a.cfg.Startup.AutoStart {
					continue
				}
				// Failures are logged by the dispatcher; the shell keeps running.
				_, _ = a.Commands.Invoke(commands.StartBackend)
			}
		}
	})

	err := g.Wait()
	a.Shutdown()
	return err
}

// ServeMetrics exposes /metrics until ctx is done. It returns immediately
// when metrics are disabled.
func (a *App) ServeMetrics(ctx context.Context) error {
	if !a.cfg.Metrics.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.Metrics.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", a.cfg.Metrics.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", srv.Addr).Msg("Serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		<-errCh
		return nil
	}
}

// Shutdown stops the backend when the config asks for it.
func (a *App) Shutdown() {
	if !a.cfg.Shutdown.StopOnExit {
		a.logger.Info().Msg("Leaving backend running on exit")
		return
	}
	if _, err := a.Commands.Invoke(commands.StopBackend); err != nil {
		a.logger.Error().Err(err).Msg("Failed to stop backend on exit")
		return
	}
	a.logger.Info().Msg("Shutdown complete")
}
