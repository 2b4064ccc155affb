// Package container provides dependency injection for the workspace
// core: it wires the Repository Manager, Container Provider, plugin
// runtime, and configuration adapters into a single composition root a
// CLI or embedder constructs once per process.
package container

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/application/services"
	"github.com/weave-pm/weave/internal/domain/values"
	"github.com/weave-pm/weave/internal/infrastructure/config"
	"github.com/weave-pm/weave/internal/infrastructure/manifest"
	"github.com/weave-pm/weave/internal/infrastructure/pluginrt"
	"github.com/weave-pm/weave/internal/infrastructure/redaction"
	"github.com/weave-pm/weave/internal/infrastructure/registry"
	"github.com/weave-pm/weave/internal/infrastructure/storage"
	"github.com/weave-pm/weave/internal/infrastructure/vcs"
	"oras.land/oras-go/v2/registry/remote/auth"
)

// Options configure the container. Every path field defaults to a
// location under the working directory's .weave subdirectory when
// left empty, matching how a real checkout lays out its build folder.
type Options struct {
	Logger      *slog.Logger
	WorkingDir  string // root for bare clones and working copies; defaults to ".weave"
	CacheDir    string // shared second-tier clone cache; empty disables it
	PluginCache string // compiled-plugin executable cache; defaults to <WorkingDir>/plugin-cache
	MaxOps      int    // Repository Manager concurrency cap; 0 means the manager's own default

	SharedMirrorsPath    string
	LocalMirrorsPath     string
	SharedRegistriesPath string
	LocalRegistriesPath  string

	RedactionPatterns []string

	ManifestLoader     ports.ManifestLoader     // defaults to manifest.JSONLoader{}
	RepositoryProvider ports.RepositoryProvider // defaults to vcs.NewGitProvider()
	Toolchain          pluginrt.Toolchain       // defaults to pluginrt.TinyGoWASI{}
}

// Container holds the fully wired workspace core, ready to drive from
// a CLI command or embed in a longer-lived process.
type Container struct {
	logger   *slog.Logger
	facade   *services.WorkspaceFacade
	manager  *services.RepositoryManager
	runtime  *pluginrt.Runtime
	registry *registry.OCIRegistry
	redactor *redaction.Redactor
	watcher  *config.Watcher

	configMu           sync.RWMutex
	sharedMirrors      config.MirrorsFile
	localMirrors       config.MirrorsFile
	sharedRegistries   config.RegistriesFile
	localRegistries    config.RegistriesFile

	sharedMirrorsPath    string
	localMirrorsPath     string
	sharedRegistriesPath string
	localRegistriesPath  string

	pluginCacheDir string
	toolchain      pluginrt.Toolchain
}

// New builds a Container from opts, loading on-disk configuration and
// materializing the plugin execution sandbox. The caller must call
// Close when finished to release the wazero runtime and config watcher.
func New(ctx context.Context, opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WorkingDir == "" {
		opts.WorkingDir = ".weave"
	}
	if opts.PluginCache == "" {
		opts.PluginCache = filepath.Join(opts.WorkingDir, "plugin-cache")
	}
	if opts.ManifestLoader == nil {
		opts.ManifestLoader = manifest.JSONLoader{}
	}
	if opts.RepositoryProvider == nil {
		opts.RepositoryProvider = vcs.NewGitProvider()
	}
	if opts.Toolchain == nil {
		opts.Toolchain = pluginrt.TinyGoWASI{}
	}

	if err := os.MkdirAll(opts.WorkingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create working dir: %w", err)
	}
	if err := os.MkdirAll(opts.PluginCache, 0o755); err != nil {
		return nil, fmt.Errorf("create plugin cache dir: %w", err)
	}

	sharedMirrors, err := loadMirrorsIfSet(opts.SharedMirrorsPath)
	if err != nil {
		return nil, fmt.Errorf("load shared mirrors: %w", err)
	}
	localMirrors, err := loadMirrorsIfSet(opts.LocalMirrorsPath)
	if err != nil {
		return nil, fmt.Errorf("load local mirrors: %w", err)
	}
	sharedRegistries, err := loadRegistriesIfSet(opts.SharedRegistriesPath)
	if err != nil {
		return nil, fmt.Errorf("load shared registries: %w", err)
	}
	localRegistries, err := loadRegistriesIfSet(opts.LocalRegistriesPath)
	if err != nil {
		return nil, fmt.Errorf("load local registries: %w", err)
	}

	redactor, err := redaction.New(redaction.Config{Patterns: opts.RedactionPatterns})
	if err != nil {
		return nil, fmt.Errorf("build redactor: %w", err)
	}

	checkoutsStore := storage.NewCheckoutsStateStore(filepath.Join(opts.WorkingDir, "checkouts-state.json"))
	pinsStore := storage.NewPinsFileStore(filepath.Join(opts.WorkingDir, "Package.resolved"))

	manager, err := services.NewRepositoryManager(services.RepositoryManagerOptions{
		ID:                 "weave",
		WorkingDir:         opts.WorkingDir,
		CacheDir:           opts.CacheDir,
		CacheLocalPackages: config.CacheLocalPackagesForTests(),
		MaxOps:             opts.MaxOps,
		Provider:           opts.RepositoryProvider,
		Store:              checkoutsStore,
		Locker:             storage.Locker{},
		Logger:             opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build repository manager: %w", err)
	}

	containers := services.NewContainerProvider(manager, opts.RepositoryProvider, opts.ManifestLoader, values.CurrentToolsVersion)

	pluginRuntime, err := pluginrt.NewRuntime(ctx)
	if err != nil {
		return nil, fmt.Errorf("build plugin runtime: %w", err)
	}

	authClient := &auth.Client{}
	ociRegistry := registry.NewOCIRegistry(authClient)

	facade := &services.WorkspaceFacade{
		Manager:        manager,
		Containers:     containers,
		Oracle:         services.NewGreedyOracle(),
		Pins:           pinsStore,
		ManifestLoader: opts.ManifestLoader,
		Materializer:   services.NewArtifactMaterializer(),
	}

	c := &Container{
		logger:               opts.Logger,
		facade:               facade,
		manager:              manager,
		runtime:              pluginRuntime,
		registry:             ociRegistry,
		redactor:             redactor,
		sharedMirrors:        sharedMirrors,
		localMirrors:         localMirrors,
		sharedRegistries:     sharedRegistries,
		localRegistries:      localRegistries,
		sharedMirrorsPath:    opts.SharedMirrorsPath,
		localMirrorsPath:     opts.LocalMirrorsPath,
		sharedRegistriesPath: opts.SharedRegistriesPath,
		localRegistriesPath:  opts.LocalRegistriesPath,
		pluginCacheDir:       opts.PluginCache,
		toolchain:            opts.Toolchain,
	}

	watchPaths := []string{opts.SharedMirrorsPath, opts.LocalMirrorsPath, opts.SharedRegistriesPath, opts.LocalRegistriesPath}
	watcher, err := config.NewWatcher(watchPaths, c.reloadConfig)
	if err != nil {
		opts.Logger.Warn("config watcher unavailable, live reload disabled", "error", err)
	} else {
		c.watcher = watcher
	}

	return c, nil
}

func loadMirrorsIfSet(path string) (config.MirrorsFile, error) {
	if path == "" {
		return config.MirrorsFile{}, nil
	}
	return config.LoadMirrors(path)
}

func loadRegistriesIfSet(path string) (config.RegistriesFile, error) {
	if path == "" {
		return config.RegistriesFile{}, nil
	}
	return config.LoadRegistries(path)
}

// reloadConfig re-reads the mirrors/registries files and invalidates
// the container provider's manifest cache, so a live edit to either
// config file is picked up without restarting the process.
func (c *Container) reloadConfig() {
	sharedMirrors, err := loadMirrorsIfSet(c.sharedMirrorsPath)
	if err != nil {
		c.logger.Warn("reload shared mirrors failed, keeping previous config", "error", err)
		return
	}
	localMirrors, err := loadMirrorsIfSet(c.localMirrorsPath)
	if err != nil {
		c.logger.Warn("reload local mirrors failed, keeping previous config", "error", err)
		return
	}
	sharedRegistries, err := loadRegistriesIfSet(c.sharedRegistriesPath)
	if err != nil {
		c.logger.Warn("reload shared registries failed, keeping previous config", "error", err)
		return
	}
	localRegistries, err := loadRegistriesIfSet(c.localRegistriesPath)
	if err != nil {
		c.logger.Warn("reload local registries failed, keeping previous config", "error", err)
		return
	}

	c.configMu.Lock()
	c.sharedMirrors = sharedMirrors
	c.localMirrors = localMirrors
	c.sharedRegistries = sharedRegistries
	c.localRegistries = localRegistries
	c.configMu.Unlock()

	c.facade.Containers.Invalidate()
	c.logger.Info("configuration changed on disk, reloaded mirrors/registries and invalidated container cache")
}

// Close releases the plugin runtime and config watcher.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.watcher != nil {
		if err := c.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.runtime != nil {
		if err := c.runtime.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("container close: %v", errs)
	}
	return nil
}

// Facade returns the Workspace Facade.
func (c *Container) Facade() *services.WorkspaceFacade { return c.facade }

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger { return c.logger }

// Runtime returns the plugin execution runtime.
func (c *Container) Runtime() *pluginrt.Runtime { return c.runtime }

// Registry returns the OCI plugin registry.
func (c *Container) Registry() *registry.OCIRegistry { return c.registry }

// Redactor returns the secret redactor shared by plugin stderr and log output.
func (c *Container) Redactor() *redaction.Redactor { return c.redactor }

// ResolveMirror resolves original against the loaded local/shared mirrors files.
func (c *Container) ResolveMirror(original string) string {
	c.configMu.RLock()
	defer c.configMu.RUnlock()
	return config.ResolveMirror(c.sharedMirrors, c.localMirrors, original)
}

// MergedRegistries returns the merged shared+local registries map.
func (c *Container) MergedRegistries() map[string]config.RegistryEntry {
	c.configMu.RLock()
	defer c.configMu.RUnlock()
	return config.MergeRegistries(c.sharedRegistries, c.localRegistries)
}

// PluginCacheDir returns the compiled-plugin executable cache directory.
func (c *Container) PluginCacheDir() string { return c.pluginCacheDir }

// Toolchain returns the configured plugin compiler invocation.
func (c *Container) Toolchain() pluginrt.Toolchain { return c.toolchain }
