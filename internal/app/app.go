package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/vk/scriptui/internal/config"
	"github.com/vk/scriptui/internal/ctxlog"
	"github.com/vk/scriptui/internal/engine"
	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	ctx      context.Context
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	host     *engine.Host
	gui      *gui.Context

	// last holds the latest rendered frame for the health server, which
	// runs on its own goroutine.
	mu   sync.Mutex
	last frameSnapshot
}

type frameSnapshot struct {
	number uint64
	text   string
	err    string
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own logger, registry and script host, and the
// script already loaded. Startup errors panic.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Create and populate the registry with Go handlers.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	// Embedded manifests first, then the user's extra manifests.
	cfgModel, err := loader.LoadSources(ctx, reg.ManifestRegistry...)
	if err != nil {
		panic(fmt.Errorf("failed to load binding manifests: %w", err))
	}
	if appConfig.ManifestsPath != "" {
		extra, err := loader.Load(ctx, appConfig.ManifestsPath)
		if err != nil {
			panic(fmt.Errorf("failed to load binding manifests: %w", err))
		}
		if err := cfgModel.Merge(extra); err != nil {
			panic(fmt.Errorf("failed to load binding manifests: %w", err))
		}
	}
	logger.Debug("Binding manifests loaded.", "types", len(cfgModel.Types), "namespaces", len(cfgModel.Namespaces))

	if err := reg.PopulateDefinitionsFromModel(cfgModel); err != nil {
		panic(err)
	}
	logger.Debug("Registry definitions populated from config model.")

	// engine.New validates the registry; a mismatch between code and
	// manifests is a programmer error, so we panic.
	host, err := engine.New(ctx, reg, engine.Options{Global: appConfig.Namespace, Entry: appConfig.Entry})
	if err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	if err := host.LoadFile(ctx, appConfig.ScriptPath); err != nil {
		host.Close()
		panic(fmt.Errorf("failed to load script: %w", err))
	}
	logger.Info("Script loaded.", "path", appConfig.ScriptPath)

	return &App{
		outW:     outW,
		ctx:      ctx,
		logger:   logger,
		config:   appConfig,
		registry: reg,
		host:     host,
		gui:      gui.NewContext(),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Host returns the script host. This is primarily for testing.
func (a *App) Host() *engine.Host {
	return a.host
}

// Close releases the script state.
func (a *App) Close() {
	a.host.Close()
}

func (a *App) storeFrame(s frameSnapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = s
}

func (a *App) lastFrame() frameSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}
