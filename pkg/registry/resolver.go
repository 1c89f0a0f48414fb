package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/depsweep/depsweep/pkg/cache"
	"github.com/depsweep/depsweep/pkg/specifier"
	"github.com/depsweep/depsweep/pkg/version"
)

// DefaultCacheTTL bounds how long registry responses are reused.
const DefaultCacheTTL = 24 * time.Hour

// AvailableVersion is one published version of a package as reported by a
// registry. Yanked covers both JSR yanks and npm deprecations.
type AvailableVersion struct {
	Version     string    `json:"version"`
	Channel     string    `json:"channel,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Yanked      bool      `json:"yanked,omitempty"`
}

// Options configures a single version lookup.
type Options struct {
	IncludeYanked bool // report yanked/deprecated versions too
	Refresh       bool // bypass the cache
}

// Config configures a Resolver. The zero value uses an in-memory cache,
// the default TTL, and the public registry endpoints.
type Config struct {
	Cache      cache.Cache
	TTL        time.Duration
	JSRBaseURL string
	NPMBaseURL string
}

// Resolver answers version queries against JSR and npm, caching per
// (registry, package) through the cache it was constructed with.
type Resolver struct {
	jsr *JSRClient
	npm *NPMClient

	cache cache.Cache

	mu   sync.Mutex
	keys map[string]bool // cache keys written during this resolver's lifetime
}

// NewResolver creates a Resolver from cfg.
func NewResolver(cfg Config) *Resolver {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewMemoryCache()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	client := NewClient(cfg.Cache, cfg.TTL)
	return &Resolver{
		jsr:   NewJSRClient(client, cfg.JSRBaseURL),
		npm:   NewNPMClient(client, cfg.NPMBaseURL),
		cache: cfg.Cache,
		keys:  make(map[string]bool),
	}
}

// Versions returns the available versions of pkg, newest first. Yanked
// versions are excluded unless opts.IncludeYanked is set.
func (r *Resolver) Versions(ctx context.Context, reg specifier.Registry, pkg string, opts Options) ([]AvailableVersion, error) {
	var (
		all []AvailableVersion
		err error
	)
	switch reg {
	case specifier.JSR:
		all, err = r.jsr.FetchVersions(ctx, pkg, opts.Refresh)
	case specifier.NPM:
		all, err = r.npm.FetchVersions(ctx, pkg, opts.Refresh)
	default:
		return nil, fmt.Errorf("unknown registry %q", reg)
	}
	if err != nil {
		return nil, err
	}
	r.remember(string(reg) + ":" + pkg)

	out := make([]AvailableVersion, 0, len(all))
	for _, av := range all {
		if av.Yanked && !opts.IncludeYanked {
			continue
		}
		av.Channel = version.Parse(av.Version).Channel
		out = append(out, av)
	}
	sortVersions(out)
	return out, nil
}

// Latest returns the newest version on channel ("" = production).
// Returns ErrNotFound if the channel has no versions.
func (r *Resolver) Latest(ctx context.Context, reg specifier.Registry, pkg, channel string) (string, error) {
	avs, err := r.Versions(ctx, reg, pkg, Options{})
	if err != nil {
		return "", err
	}
	latest, ok := version.FindLatest(versionStrings(avs), channel)
	if !ok {
		return "", fmt.Errorf("%w: %s has no versions on channel %q", ErrNotFound, pkg, channel)
	}
	return latest, nil
}

// VersionsByChannel returns the versions on channel, newest first.
func (r *Resolver) VersionsByChannel(ctx context.Context, reg specifier.Registry, pkg, channel string) ([]string, error) {
	avs, err := r.Versions(ctx, reg, pkg, Options{})
	if err != nil {
		return nil, err
	}
	return version.VersionsByChannel(versionStrings(avs), channel), nil
}

// HasVersion reports whether pkg has published version v (yanked included).
func (r *Resolver) HasVersion(ctx context.Context, reg specifier.Registry, pkg, v string) (bool, error) {
	avs, err := r.Versions(ctx, reg, pkg, Options{IncludeYanked: true})
	if err != nil {
		return false, err
	}
	for _, av := range avs {
		if av.Version == v {
			return true, nil
		}
	}
	return false, nil
}

// ClearCache drops every cache entry this resolver has written.
func (r *Resolver) ClearCache(ctx context.Context) error {
	r.mu.Lock()
	keys := make([]string, 0, len(r.keys))
	for k := range r.keys {
		keys = append(keys, k)
	}
	clear(r.keys)
	r.mu.Unlock()

	var firstErr error
	for _, k := range keys {
		if err := r.cache.Delete(ctx, k); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Resolver) remember(key string) {
	r.mu.Lock()
	r.keys[key] = true
	r.mu.Unlock()
}

func versionStrings(avs []AvailableVersion) []string {
	out := make([]string, len(avs))
	for i, av := range avs {
		out[i] = av.Version
	}
	return out
}

func sortVersions(avs []AvailableVersion) {
	sort.SliceStable(avs, func(i, j int) bool {
		return version.Compare(avs[i].Version, avs[j].Version) > 0
	})
}
