// Package cli implements the depsweep command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/depsweep/depsweep/pkg/buildinfo"
	"github.com/depsweep/depsweep/pkg/cache"
	"github.com/depsweep/depsweep/pkg/refs"
	"github.com/depsweep/depsweep/pkg/registry"
	"github.com/depsweep/depsweep/pkg/specifier"
	"github.com/depsweep/depsweep/pkg/workspace"
)

// appName is the application name used for directories and display.
const appName = "depsweep"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	workDir    string
	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Depsweep upgrades package references across a workspace",
		Long:         `Depsweep discovers the projects in a multi-project workspace, finds every jsr: and npm: package reference across manifests, source, templates, and docs, and rewrites them to a chosen version in one sweep.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVarP(&c.workDir, "dir", "d", ".", "workspace root directory")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default .depsweep.toml in the workspace)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable registry response caching")

	root.AddCommand(c.projectsCommand())
	root.AddCommand(c.refsCommand())
	root.AddCommand(c.upgradeCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newWorkspace opens the workspace the --dir flag points at.
func (c *CLI) newWorkspace() (*workspace.Resolver, error) {
	fsys, err := workspace.NewOSFS(c.workDir)
	if err != nil {
		return nil, fmt.Errorf("open workspace %s: %w", c.workDir, err)
	}
	return workspace.NewResolver(fsys), nil
}

// newScanner builds a reference scanner whose swallowed per-file errors
// surface at debug level.
func (c *CLI) newScanner() (*refs.Scanner, error) {
	ws, err := c.newWorkspace()
	if err != nil {
		return nil, err
	}
	s := refs.NewScanner(ws)
	s.Logf = c.Logger.Debugf
	return s, nil
}

// newRegistry builds a version resolver backed by the configured cache.
func (c *CLI) newRegistry(ctx context.Context) (*registry.Resolver, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.newCacheBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return registry.NewResolver(registry.Config{
		Cache:      store,
		TTL:        cfg.Cache.TTLDuration(),
		JSRBaseURL: cfg.Registry.JSRURL,
		NPMBaseURL: cfg.Registry.NPMURL,
	}), nil
}

func (c *CLI) newCacheBackend(ctx context.Context, cfg Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case "", "file":
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			// A broken cache dir should not block lookups.
			c.Logger.Debugf("file cache unavailable: %v", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	case "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Redis.Addr)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// parsePackageArg splits a package argument into registry and full name.
// An explicit "jsr:" or "npm:" prefix wins; without one, scoped names
// default to JSR and bare names to npm.
func parsePackageArg(arg string) (specifier.Registry, string, error) {
	if reg, name, ok := strings.Cut(arg, ":"); ok {
		switch specifier.Registry(reg) {
		case specifier.JSR, specifier.NPM:
			return specifier.Registry(reg), name, nil
		}
		return "", "", fmt.Errorf("unknown registry prefix %q (want jsr: or npm:)", reg)
	}
	if strings.HasPrefix(arg, "@") {
		return specifier.JSR, arg, nil
	}
	return specifier.NPM, arg, nil
}
