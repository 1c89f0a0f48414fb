package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/depsweep/depsweep/pkg/registry"
)

// configFileName is looked up in the workspace root when --config is not
// given; a user-level config.toml under the OS config dir is the fallback.
const configFileName = ".depsweep.toml"

// Config is the on-disk configuration.
type Config struct {
	Cache    CacheConfig    `toml:"cache"`
	Registry RegistryConfig `toml:"registry"`
	Redis    RedisConfig    `toml:"redis"`
}

// CacheConfig selects and tunes the registry response cache.
type CacheConfig struct {
	// Backend is one of "file" (default), "memory", "redis", "none".
	Backend string `toml:"backend"`
	// Dir overrides the file cache location.
	Dir string `toml:"dir"`
	// TTL is a duration string like "24h" or "30m".
	TTL string `toml:"ttl"`
}

// TTLDuration parses the configured TTL, returning zero (engine default)
// for empty or invalid values.
func (c CacheConfig) TTLDuration() time.Duration {
	if c.TTL == "" {
		return 0
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0
	}
	return d
}

// RegistryConfig overrides the registry endpoints, mainly for mirrors and
// tests.
type RegistryConfig struct {
	JSRURL string `toml:"jsr_url"`
	NPMURL string `toml:"npm_url"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr string `toml:"addr"`
}

// loadConfig reads the effective config. Resolution order: --config flag,
// workspace-root .depsweep.toml, user config dir. A missing file yields
// the zero config; a malformed file is an error only when it was named
// explicitly.
func (c *CLI) loadConfig() (Config, error) {
	if c.configPath != "" {
		cfg, err := readConfig(c.configPath)
		if err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", c.configPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{
		filepath.Join(c.workDir, configFileName),
		userConfigPath(),
	} {
		if path == "" {
			continue
		}
		cfg, err := readConfig(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			c.Logger.Warnf("ignoring config %s: %v", path, err)
			continue
		}
		return cfg, nil
	}
	return Config{}, nil
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.toml")
}

// registryOptions converts command flags to lookup options.
func registryOptions(includeYanked, refresh bool) registry.Options {
	return registry.Options{IncludeYanked: includeYanked, Refresh: refresh}
}
