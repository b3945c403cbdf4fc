package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/daemon"
	"github.com/1broseidon/framewm/internal/displayenv"
	"github.com/1broseidon/framewm/internal/eventloop"
	"github.com/1broseidon/framewm/internal/hotkeys"
	"github.com/1broseidon/framewm/internal/ipc"
	"github.com/1broseidon/framewm/internal/platform"
	"github.com/1broseidon/framewm/internal/runtimepath"
	"github.com/1broseidon/framewm/internal/supervise"
	"github.com/1broseidon/framewm/internal/wm"
)

const (
	exitRuntime   = 1
	exitUsage     = 2
	exitNoDisplay = 3
	exitNoScreen  = 4
)

const supportingWMName = "framewm"

func runWM(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framewm run [--display NAME] [--config PATH] [--debug]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Manage the X display in the foreground.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	displayFlag := fs.String("display", "", "X display to manage (default: $DISPLAY)")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/framewm/config.yaml)")
	debug := fs.Bool("debug", false, "Log at debug level")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return exitUsage
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return exitUsage
	}

	_ = godotenv.Load()

	load := func() (*config.Config, error) {
		res, err := loadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}
	cfg, err := load()
	if err != nil {
		initLogger(slog.LevelInfo)
		slog.Error("failed to load configuration", "err", err)
		return exitRuntime
	}

	level := parseLevel(cfg.LogLevel)
	if *debug {
		level = slog.LevelDebug
	}
	logger := initLogger(level)

	env, err := displayenv.Resolve(os.Environ(), *displayFlag, cfg.Display)
	if err != nil {
		logger.Error("no display to manage", "err", err)
		return exitNoDisplay
	}
	if err := env.Apply(); err != nil {
		logger.Warn("failed to export display environment", "err", err)
	}

	backend, err := platform.NewLinuxBackendFromDisplay(env.Display)
	if err != nil {
		logger.Error("failed to open display", "display", env.Display, "err", err)
		return exitNoDisplay
	}
	defer backend.Disconnect()

	conn := backend.Connection()
	if conn.Screens() == 0 {
		logger.Error("display has no screens", "display", env.Display)
		return exitNoScreen
	}
	if err := conn.BecomeWM(); err != nil {
		if platform.IsOtherWM(err) {
			logger.Error("another window manager is already running", "display", env.Display)
			return exitNoScreen
		}
		logger.Error("failed to take over the root window", "err", err)
		return exitRuntime
	}
	if err := conn.SetSupportingWM(supportingWMName); err != nil {
		logger.Warn("failed to advertise EWMH support", "err", err)
	}

	cs, err := cfg.ActiveStyle()
	if err != nil {
		logger.Error("invalid style", "err", err)
		return exitRuntime
	}
	style, err := wm.StyleFromConfig(cs)
	if err != nil {
		logger.Error("invalid style", "style", cfg.Style, "err", err)
		return exitRuntime
	}
	opts, err := wm.OptionsFromConfig(cfg)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		return exitRuntime
	}

	loop := eventloop.New(backend.XUtil(), logger)
	manager := wm.NewManager(backend, loop, style, opts, cfg.Workspaces, logger)

	publisher := daemon.NewStateSynchronizer(backend, manager, loop.Post, logger)
	manager.Screen().AddObserver(publisher)

	backend.Listen(manager)
	if err := manager.Start(); err != nil {
		logger.Error("failed to adopt existing windows", "err", err)
		return exitRuntime
	}
	publisher.Sync()

	keys := hotkeys.NewHandler(backend.XUtil(), backend.RootWindow(), logger)
	ctl := ipc.NewManagerController(manager, loop, cfg, load)
	bind := func(b config.Bindings) {
		if err := keys.Bind(b, func(name string) { runBinding(ctl, manager, name, logger) }); err != nil {
			logger.Warn("some key bindings could not be grabbed", "err", err)
		}
	}
	bind(cfg.Bindings)
	ctl.OnReload = func(next *config.Config) {
		keys.Unbind()
		bind(next.Bindings)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		logger.Error("failed to resolve control socket path", "err", err)
		return exitRuntime
	}

	super := supervise.New("framewm", logger)
	supervise.Add(super, ipc.NewServer(socketPath, ctl, logger))
	supervise.Add(super, daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: time.Duration(cfg.ReconcileInterval) * time.Second,
		Logger:   logger,
	}, manager, loop))
	supervise.Add(super, supervise.NewFunc("reload-on-hup", func(ctx context.Context) error {
		return reloadOnHangup(ctx, ctl, logger)
	}))
	superErr := super.ServeBackground(ctx)

	logger.Info("framewm running", "display", env.Display, "workspaces", len(cfg.Workspaces), "style", cfg.Style, "socket", socketPath)

	runErr := loop.Run(ctx)
	stop()
	if err := <-superErr; err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("supervisor stopped", "err", err)
	}

	manager.Shutdown()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("event loop stopped", "err", runErr)
		return exitRuntime
	}
	logger.Info("framewm stopped")
	return 0
}

// runBinding runs on the event loop from a key press.
func runBinding(ctl *ipc.ManagerController, m *wm.Manager, name string, logger *slog.Logger) {
	if name == "reconfigure" {
		if err := m.ApplyConfig(ctl.Config()); err != nil {
			logger.Error("reconfigure failed", "err", err)
		}
		return
	}
	res, err := m.Command(name)
	if err != nil {
		logger.Error("key binding failed", "command", name, "err", err)
		return
	}
	logger.Debug("key binding", "command", name, "outcome", res.Outcome.String())
}

func reloadOnHangup(ctx context.Context, ctl ipc.Controller, logger *slog.Logger) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-hup:
			if err := ctl.Reload(ctx); err != nil {
				logger.Error("reload failed", "err", err)
				continue
			}
			logger.Info("configuration reloaded")
		}
	}
}
